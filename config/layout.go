package config

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
)

const layoutTemplateText = `// Code generated by rtgen from {{.Source}}; DO NOT EDIT.

// Package layout holds the static memory layout of the kernel image.
package layout

import (
	"sbirt/kernel/riscv"
	"sbirt/kernel/vm"
)

const (
	MaxHartID = {{.MaxHartID}}
	HartStackSize = {{hex .HartStackSize}}
	TrapStackSize = {{hex .TrapStackSize}}
	HeapSize = {{hex .HeapSize}}
	PagePoolSize = {{hex .PagePoolSize}}
	KernelBase = {{hex .KernelBase}}
	RAMEnd = {{hex .RAMEnd}}
	LogLevel = {{printf "%q" .LogLevel}}
)

// Devices are identity mapped ahead of the kernel image.
var Devices = []vm.Region{
{{- range .Regions}}
	vm.Identity({{printf "%q" .Name}}, {{hex .Base}}, {{hex .Size}}, {{perm .}}),
{{- end}}
}
`

var layoutTemplate = template.Must(template.New("layout").Funcs(template.FuncMap{
	"hex":  hex,
	"perm": perm,
}).Parse(layoutTemplateText))

// hex avoids Size.String, which fmt would otherwise pick up for %x.
func hex(v interface{}) string {
	switch v := v.(type) {
	case Size:
		return fmt.Sprintf("%#x", uint64(v))
	default:
		return fmt.Sprintf("%#x", v)
	}
}

func perm(r Region) (string, error) {
	bits, err := r.PermBits()
	return strings.Join(bits, "|"), err
}

type layoutParams struct {
	*Board
	Source string
}

// Layout renders the kernel/layout package for b. source names the board
// file in the generated header.
func (b *Board) Layout(source string) ([]byte, error) {
	var buf bytes.Buffer
	if err := layoutTemplate.Execute(&buf, layoutParams{Board: b, Source: source}); err != nil {
		return nil, fmt.Errorf("running layout template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting layout: %w", err)
	}
	return out, nil
}
