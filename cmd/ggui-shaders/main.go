// Command ggui-shaders compiles the embedded draw-pipe shaders to SPIR-V.
//
// Usage:
//
//	ggui-shaders [-out dir] [-v]
//
// Every WGSL module is compiled with naga. With -out, each module is
// written to <dir>/<name>.spv. The exit status is 1 if any module fails.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/gogpu/ggui/internal/gpu"
)

func main() {
	var (
		out     = flag.String("out", "", "directory to write .spv files to")
		verbose = flag.Bool("v", false, "print a line per module")
	)
	flag.Parse()
	log.SetFlags(0)

	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			log.Fatalf("create output directory: %v", err)
		}
	}

	failed := 0
	for _, src := range gpu.ShaderSources() {
		words, err := gpu.CompileSPIRV(src.WGSL)
		if err != nil {
			log.Printf("%s: %v", src.Name, err)
			failed++
			continue
		}
		if *verbose {
			log.Printf("%s: %d words", src.Name, len(words))
		}
		if *out == "" {
			continue
		}
		path := filepath.Join(*out, src.Name+".spv")
		if err := os.WriteFile(path, spirvBytes(words), 0o644); err != nil { //nolint:gosec // shader output is not secret
			log.Printf("%s: %v", src.Name, err)
			failed++
		}
	}

	if failed > 0 {
		log.Printf("%d of %d shaders failed", failed, len(gpu.ShaderSources()))
		os.Exit(1)
	}
}

// spirvBytes encodes SPIR-V words in little-endian order.
func spirvBytes(words []uint32) []byte {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}
