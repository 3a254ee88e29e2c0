// svtool is a CLI utility for inspecting meshes and building stencil shadow volumes.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "gen":
		err = cmdGen(os.Stdout, args)
	case "dump":
		err = cmdDump(os.Stdout, args)
	case "bench":
		err = cmdBench(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `svtool - stencil shadow volume utility

Usage:
  svtool <command> [options]

Commands:
  info <mesh.bin>                      Show groups, topology and bounds
  gen [options] <box|cylinder> <out>   Write a generated mesh file
  dump [options] <mesh.bin|box|cylinder>
                                       Build one volume and print it as YAML
  bench [options]                      Build shadow volumes for the demo or spiral scene

Examples:
  svtool gen -segments 32 cylinder column.bin
  svtool info column.bin
  svtool dump -light 0,5,0 -algorithm edge -technique depth_fail column.bin
  svtool bench -frames 300 -lights 5 -workers 4
  svtool bench -layout spiral -instances 25 -sun 30,45 -pick 640,360
  svtool bench -orbit -mixed on -pattern arc`)
}
