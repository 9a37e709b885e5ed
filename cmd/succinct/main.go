// Command succinct builds and queries the canonical Huffman codes and
// FMPH minimal perfect hash functions implemented by this module.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
	"rsc.io/getopt"

	"github.com/bwesterb/go-succinct/fmph"
	"github.com/bwesterb/go-succinct/huffman"
	"github.com/bwesterb/go-succinct/internal/bitio"
)

var (
	bitsPerFragment = flag.Uint("bits", 1, "huffman build: bits per fragment (1..8)")
	generalDegree   = flag.Uint("degree", 0, "huffman build: general degree (>=2); overrides -bits")
	decodeDegree    = flag.Uint("decode-degree", 0, "huffman decode: >=2 if the coding was built with -degree (the degree itself is read from the file); 0 reads a bits-per-fragment coding")
	configPath      = flag.String("config", "", "fmph build: YAML build configuration file")
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: succinct [flags] <command> <subcommand> [args]

commands:
  huffman build   [-bits n | -degree n] <freq-file>
  huffman decode  [-decode-degree n] <coding-file> <fragment-file>
  fmph    build   [-config file.yaml] <in >out
  fmph    query   <function-file> <key>
`)
}

func main() {
	getopt.Alias("b", "bits")
	getopt.Alias("d", "degree")
	getopt.Alias("c", "config")

	// Work around https://github.com/rsc/getopt/issues/3
	if err := getopt.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	group, cmd, rest := args[0], args[1], args[2:]

	var code int
	switch group {
	case "huffman":
		switch cmd {
		case "build":
			code = huffmanBuild(rest)
		case "decode":
			code = huffmanDecode(rest)
		default:
			usage()
			code = 2
		}
	case "fmph":
		switch cmd {
		case "build":
			code = fmphBuild()
		case "query":
			code = fmphQuery(rest)
		default:
			usage()
			code = 2
		}
	default:
		usage()
		code = 2
	}
	os.Exit(code)
}

// huffmanBuild reads value<TAB>frequency lines from freqPath, builds a
// Coding, prints its level breakdown and total fragment count, and
// writes the coding to freqPath+".huff" (spec §4.12/§1a).
func huffmanBuild(args []string) int {
	if len(args) != 1 {
		usage()
		return 2
	}
	freqPath := args[0]

	var d huffman.Degree
	if *generalDegree >= 2 {
		d = huffman.GeneralDegree(*generalDegree)
	} else {
		d = huffman.BitsPerFragment(*bitsPerFragment)
	}

	freqMap, err := readFrequencies(freqPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}

	coding := huffman.FromFrequencies(d, freqMap)

	it := coding.Levels()
	for {
		leaves, internalNodes, level, ok := it.Next()
		if !ok {
			break
		}
		fmt.Printf("level %d: %d leaves, %d internal nodes\n", level, len(leaves), internalNodes)
	}
	fmt.Printf("total fragments: %d\n", coding.TotalFragmentsCount())

	out, err := os.Create(freqPath + ".huff")
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := coding.Write(w, writeLine); err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	return 0
}

// huffmanDecode reads the coding written by huffmanBuild from
// codingPath, then streams the fragment file byte by byte (one raw
// byte per fragment, spec §4.12) through Decoder.ConsumeChecked,
// printing each decoded value.
func huffmanDecode(args []string) int {
	if len(args) != 2 {
		usage()
		return 2
	}
	codingPath, fragPath := args[0], args[1]

	cf, err := os.Open(codingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	defer cf.Close()

	r := bufio.NewReader(cf)
	var coding *huffman.Coding[string]
	if *decodeDegree >= 2 {
		coding, err = huffman.ReadGeneralDegreeCoding[string](r, readLine)
	} else {
		coding, err = huffman.ReadBitsPerFragmentCoding[string](r, readLine)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}

	ff, err := os.Open(fragPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	defer ff.Close()

	decoder := coding.Decoder()
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	br := bitio.NewReader(ff)
	for {
		fragment := uint32(br.ReadBits(8))
		if br.Err() != nil {
			break
		}
		value, status := decoder.ConsumeChecked(fragment)
		switch status {
		case huffman.Decoded:
			fmt.Fprintln(w, value)
		case huffman.Invalid:
			fmt.Fprintf(os.Stderr, "succinct: invalid fragment stream\n")
			return 1
		}
	}
	if !errors.Is(br.Err(), io.EOF) {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", br.Err())
		return 1
	}
	return 0
}

func fmphBuild() int {
	conf := fmph.DefaultBuildConf[string](fmph.NewStringHasher())
	if *configPath != "" {
		loaded, err := loadBuildConf(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
			return 1
		}
		conf.CacheThreshold = loaded.CacheThreshold
		conf.RelativeLevelSize = loaded.RelativeLevelSize
		conf.UseMultipleThreads = loaded.UseMultipleThreads
	}

	keys, err := readLines(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}

	fn, err := fmph.WithConf[string](fmph.NewSliceKeySet(keys), conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}

	if err := verifyBijection(fn, keys); err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(os.Stderr, "succinct: refusing to write binary function to a terminal\n")
		return 1
	}
	w := bufio.NewWriter(os.Stdout)
	if err := fn.Write(w); err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	return 0
}

// verifyBijection checks that fn assigns every key in keys a distinct
// index in [0, len(keys)) before the function is persisted (spec §8
// property 6), mirroring assertBijection in fmph/fmph_test.go.
func verifyBijection(fn *fmph.Function[string], keys []string) error {
	seen := make([]bool, len(keys))
	for _, k := range keys {
		idx, ok := fn.Get(k)
		if !ok {
			return fmt.Errorf("bijection check failed: key %q not found", k)
		}
		if idx >= uint64(len(keys)) {
			return fmt.Errorf("bijection check failed: key %q mapped to out-of-range index %d", k, idx)
		}
		if seen[idx] {
			return fmt.Errorf("bijection check failed: duplicate index %d", idx)
		}
		seen[idx] = true
	}
	return nil
}

func fmphQuery(args []string) int {
	if len(args) != 2 {
		usage()
		return 2
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}
	defer f.Close()

	fn, err := fmph.ReadWithHasher[string](bufio.NewReader(f), fmph.NewStringHasher())
	if err != nil {
		fmt.Fprintf(os.Stderr, "succinct: %v\n", err)
		return 1
	}

	idx, ok := fn.Get(args[1])
	if !ok {
		fmt.Println("not found")
		return 1
	}
	fmt.Println(idx)
	return 0
}

// readFrequencies reads value<TAB>frequency lines from path, summing
// repeated values' frequencies.
func readFrequencies(path string) (map[string]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	freq := make(map[string]uint32)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		value, countStr, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("malformed frequency line %q: missing tab", line)
		}
		count, err := strconv.ParseUint(countStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed frequency line %q: %w", line, err)
		}
		freq[value] += uint32(count)
	}
	return freq, scanner.Err()
}

func readLines(f *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func writeLine(w io.Writer, s string) error {
	_, err := w.Write(append([]byte(s), '\n'))
	return err
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}
