// Command flagsdump prints the flag table of a compiled flags attribute map and
// decodes packed values against it.
package main

import (
	"bufio"
	"encoding/xml"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avast/apkres"
)

var errUsage = errors.New("usage")

func main() {
	namesPath := flag.String("names", "", "File with \"0xID name\" lines, or \"0xID keyIndex\" lines with -keys")
	keysPath := flag.String("keys", "", "Key string pool chunk used to resolve flag names")
	configPath := flag.String("config", "", "YAML config file")
	verbose := flag.Bool("v", false, "Log unresolved references")

	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.ErrorLevel)
	}

	err := run(log, os.Stdout, *namesPath, *keysPath, *configPath, flag.Args())
	if err == errUsage {
		fmt.Printf("%s [-names FILE] [-keys FILE] [-config FILE] INPUT [VALUE...]\n", os.Args[0])
		os.Exit(1)
	} else if err != nil {
		log.Fatal(err)
	}
}

func run(log logrus.FieldLogger, out io.Writer, namesPath, keysPath, configPath string, args []string) error {
	if len(args) < 1 {
		return errUsage
	}

	var cfg apkres.Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		if cfg, err = apkres.ParseConfig(data); err != nil {
			return err
		}
	}
	cfg.Logger = log

	resolver, err := loadResolver(namesPath, keysPath)
	if err != nil {
		return err
	}

	values := make([]int32, 0, len(args)-1)
	for _, arg := range args[1:] {
		v, err := parseValue(arg)
		if err != nil {
			return err
		}
		values = append(values, v)
	}

	var r io.Reader
	input := args[0]
	if input == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	attr, err := apkres.ParseFlagsAttr(bufio.NewReader(r))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", input, err)
	}

	session := apkres.NewSession(resolver, cfg)

	enc := xml.NewEncoder(out)
	enc.Indent("", "    ")

	start := xml.StartElement{
		Name: xml.Name{Local: "attr"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "format"}, Value: strings.Join(apkres.FormatNames(attr.Format), "|")}},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := session.EmitFlags(attr, enc); err != nil {
		return err
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	for _, v := range values {
		decoded, err := session.DecodeFlags(attr, v)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "0x%08x: %s\n", uint32(v), decoded)
	}
	return nil
}

// parseValue accepts any 32-bit value, signed or unsigned.
func parseValue(arg string) (int32, error) {
	if v, err := strconv.ParseInt(arg, 0, 32); err == nil {
		return int32(v), nil
	}

	v, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: not a 32-bit integer", arg)
	}
	return int32(uint32(v)), nil
}

func loadResolver(namesPath, keysPath string) (apkres.Resolver, error) {
	var lines map[apkres.Reference]string
	if namesPath != "" {
		f, err := os.Open(namesPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if lines, err = readIDLines(f); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", namesPath, err)
		}
	}

	if keysPath == "" {
		return apkres.MapResolver(lines), nil
	}

	f, err := os.Open(keysPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pool, err := apkres.ParseKeyPool(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", keysPath, err)
	}

	keys := make(map[apkres.Reference]uint32, len(lines))
	for ref, idx := range lines {
		n, err := strconv.ParseUint(idx, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("key index of 0x%08x: %w", uint32(ref), err)
		}
		keys[ref] = uint32(n)
	}
	return &apkres.PoolResolver{Pool: pool, Keys: keys}, nil
}

func readIDLines(r io.Reader) (map[apkres.Reference]string, error) {
	res := map[apkres.Reference]string{}
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"0xID value\"", line)
		}

		id, err := strconv.ParseUint(fields[0], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		res[apkres.Reference(id)] = fields[1]
	}
	return res, sc.Err()
}
