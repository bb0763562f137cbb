// seehuhn.de/go/sfntsubset - a library for subsetting OpenType fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Font-subset reduces an OpenType font to the glyphs needed for a given
// text or set of characters.
//
// Usage:
//
//	font-subset [options] <font.ttf|font.otf>
//
// The characters to keep are given by --text, --unicodes and --gids.
// The result is written to <name>.subset<ext>, unless a different output
// file is given by --output.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"seehuhn.de/go/sfntsubset"
	"seehuhn.de/go/sfntsubset/tools/internal/buildinfo"
	"seehuhn.de/go/sfntsubset/tools/internal/profile"
)

const toolName = "font-subset"

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	output   string
	text     string
	unicodes string
	gids     string
	layout   bool
	hinting  bool
	names    bool
	pua      bool
	parallel bool
	quiet    bool
	version  bool

	cpuprofile string
	memprofile string
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	opt := &options{}
	flags := pflag.NewFlagSet(toolName, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opt.output, "output", "o", "", "output file name (\"-\" for stdout)")
	flags.StringVarP(&opt.text, "text", "t", "", "keep the characters of this text")
	flags.StringVarP(&opt.unicodes, "unicodes", "u", "", "keep these code points, e.g. \"U+0041,0x42,61-7A\"")
	flags.StringVarP(&opt.gids, "gids", "g", "", "keep these glyph IDs, e.g. \"1,5-9\"")
	flags.BoolVar(&opt.layout, "layout", false, "keep kern; GSUB, GPOS and other layout tables are only kept if no glyph is renumbered")
	flags.BoolVar(&opt.hinting, "hinting", false, "keep TrueType hinting")
	flags.BoolVar(&opt.names, "names", false, "keep glyph names")
	flags.BoolVar(&opt.pua, "pua", false, "map every glyph to U+F0000 plus its glyph ID")
	flags.BoolVar(&opt.parallel, "parallel", false, "rewrite tables concurrently")
	flags.BoolVarP(&opt.quiet, "quiet", "q", false, "only report errors")
	flags.BoolVar(&opt.version, "version", false, "print version information and exit")
	flags.StringVar(&opt.cpuprofile, "cpuprofile", "", "write CPU profile to file")
	flags.StringVar(&opt.memprofile, "memprofile", "", "write memory profile to file")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <font.ttf|font.otf>\n\nOptions:\n", toolName)
		flags.PrintDefaults()
	}
	err = flags.Parse(args)
	if err != nil {
		return err
	}

	if opt.version {
		fmt.Fprintln(stdout, buildinfo.Short(toolName))
		return nil
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errors.New("exactly one input file must be given")
	}
	inName := flags.Arg(0)

	stop, err := profile.Start(opt.cpuprofile, opt.memprofile)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, stop())
	}()

	level := slog.LevelInfo
	if opt.quiet {
		level = slog.LevelError
	}
	logger := slog.Make(sloghuman.Sink(stderr)).Leveled(level)
	ctx := context.Background()

	req, err := opt.request()
	if err != nil {
		return err
	}

	outName := opt.output
	if outName == "" {
		outName = defaultOutput(inName)
	}
	if outName == "-" && isTerminal(stdout) {
		return errors.New("refusing to write binary data to a terminal")
	}

	data, err := os.ReadFile(inName)
	if err != nil {
		return err
	}
	res, err := sfntsubset.Run(data, req)
	if err != nil {
		return fmt.Errorf("%s: %w", inName, err)
	}

	for _, d := range res.Diagnostics {
		fields := []slog.Field{slog.F("detail", d.Message)}
		if d.Table != "" {
			fields = append(fields, slog.F("table", d.Table))
		}
		logger.Warn(ctx, d.Kind.String(), fields...)
	}

	if outName == "-" {
		_, err = stdout.Write(res.Data)
	} else {
		err = os.WriteFile(outName, res.Data, 0o644)
	}
	if err != nil {
		return err
	}

	logger.Info(ctx, "font subsetted",
		slog.F("output", outName),
		slog.F("revision", res.Head.FontRevision.String()),
		slog.F("units_per_em", res.Head.UnitsPerEm),
		slog.F("modified", res.Head.Modified.Format(time.DateOnly)),
		slog.F("glyphs_before", res.NumGlyphs),
		slog.F("glyphs_after", res.Remap.Len()),
		slog.F("bytes_before", len(data)),
		slog.F("bytes_after", len(res.Data)))
	return nil
}

// request builds the subsetting request from the command line options.
func (opt *options) request() (*sfntsubset.Request, error) {
	req := &sfntsubset.Request{
		Codepoints:       []rune(opt.text),
		KeepLayoutTables: opt.layout,
		KeepHinting:      opt.hinting,
		KeepGlyphNames:   opt.names,
		MapGlyphsToPUA:   opt.pua,
		Parallel:         opt.parallel,
	}
	if opt.unicodes != "" {
		codes, err := parseUnicodes(opt.unicodes)
		if err != nil {
			return nil, err
		}
		req.Codepoints = append(req.Codepoints, codes...)
	}
	if opt.gids != "" {
		gids, err := parseGIDs(opt.gids)
		if err != nil {
			return nil, err
		}
		req.GlyphIDs = gids
	}
	return req, nil
}

// defaultOutput returns the default output file name for the input file
// fname, by inserting ".subset" before the file name extension.
func defaultOutput(fname string) string {
	ext := filepath.Ext(fname)
	return strings.TrimSuffix(fname, ext) + ".subset" + ext
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
