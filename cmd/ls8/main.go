// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

func main() {
	var assemble bool
	var save bool
	var wrap bool
	var verbose bool
	var lang string

	flag.BoolVar(&assemble, "a", false, "Assemble LS-8 source instead of loading a binary image")
	flag.BoolVar(&save, "s", false, "Write the binary image to stdout, do not execute")
	flag.BoolVar(&wrap, "w", false, "Truncate ADD and MUL results to 8 bits")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "l", "", "Language for diagnostics")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "USAGE: %v [options] filename\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if len(lang) != 0 {
		translate.Use(lang)
	}

	filename := flag.Arg(0)

	inf, err := os.Open(filename)
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Cpu.Wrap = wrap

	if assemble {
		err = emu.Assemble(inf)
	} else {
		err = emu.Load(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}

	if save {
		err = emu.Rom.Store(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	emu.Tape.Output = os.Stdout

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}
}
