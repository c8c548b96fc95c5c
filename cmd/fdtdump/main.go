// Package main provides a command-line utility to dump the contents of a
// flattened device tree blob: its header fields and its node/property
// tree, in the style of the reference dtc fdtdump tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	fdt "github.com/arm64boot/fdt"
	"github.com/arm64boot/fdt/internal/core"
)

func main() {
	showHeader := flag.Bool("header", true, "print the decoded header fields")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: fdtdump [flags] <file.dtb>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("failed to read file: %v", err)
	}

	b, err := fdt.New(data)
	if err != nil {
		log.Fatalf("invalid device tree blob: %v", err)
	}

	if *showHeader {
		printHeader(b)
	}
	if err := printTree(b); err != nil {
		log.Fatalf("error walking tree: %v", err)
	}
}

func printHeader(b *fdt.Blob) {
	fmt.Printf("magic:             0x%08x\n", core.Magic)
	fmt.Printf("totalsize:         0x%x (%d)\n", b.TotalSize(), b.TotalSize())
	fmt.Printf("version:           %d\n", b.Version())
	fmt.Printf("last_comp_version: %d\n", b.LastCompVersion())
	if id, ok := b.BootCPUIDPhys(); ok {
		fmt.Printf("boot_cpuid_phys:   0x%x\n", id)
	}
	n, err := b.NumMemRsv()
	if err == nil && n > 0 {
		fmt.Println("reserved memory:")
		for i := 0; i < n; i++ {
			addr, size, err := b.GetMemRsv(i)
			if err != nil {
				break
			}
			fmt.Printf("  0x%x - 0x%x\n", addr, addr+size)
		}
	}
	fmt.Println()
}

// printTree walks every node in document order, printing its full path
// and its own properties indented beneath it.
func printTree(b *fdt.Blob) error {
	depth := 0
	off, err := b.NextNode(-1, &depth)
	for err == nil {
		path, pathErr := b.GetPath(off)
		if pathErr != nil {
			return pathErr
		}
		fmt.Printf("%s:\n", path)

		propOff, propErr := b.FirstProperty(off)
		for propErr == nil {
			pname, pvalue, entryErr := b.PropertyValue(propOff)
			if entryErr != nil {
				return entryErr
			}
			fmt.Printf("  %s = %s;\n", pname, formatValue(pvalue))
			propOff, propErr = b.NextProperty(propOff)
		}

		off, err = b.NextNode(off, &depth)
	}
	return nil
}

func formatValue(v []byte) string {
	return fmt.Sprintf("<%d bytes>", len(v))
}
