package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/loader"
	"github.com/KaramelBytes/statify-cli/internal/workspace"
	"github.com/spf13/pflag"
)

// readFlags are the file-reading flags shared by analyze, analyze-batch and init.
type readFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
	dataPath   string
}

func (r *readFlags) bind(f *pflag.FlagSet) {
	f.StringVar(&r.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default ',' or tab for .tsv)")
	f.StringVar(&r.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	f.StringVar(&r.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	f.IntVar(&r.maxRows, "max-rows", -1, "maximum rows to load (0 = unlimited, default from config)")
	f.StringVar(&r.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	f.IntVar(&r.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	f.StringVar(&r.dataPath, "data-path", "", "JSON: gjson path to the array of records")
}

func (r *readFlags) options() (loader.Options, error) {
	opt := loader.Options{
		SheetName:  r.sheetName,
		SheetIndex: r.sheetIndex,
		DataPath:   r.dataPath,
	}
	if r.maxRows >= 0 {
		opt.MaxRows = r.maxRows
	} else if c, err := config(); err == nil {
		opt.MaxRows = c.MaxRows
	}
	switch r.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	case "\t", `\t`, "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", r.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(r.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", r.decimal)
	}
	switch strings.ToLower(r.thousands) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", r.thousands)
	}
	return opt, nil
}

// source converts validated options into the form stored in statify.json.
func (r *readFlags) source(path string) (workspace.Source, error) {
	opt, err := r.options()
	if err != nil {
		return workspace.Source{}, err
	}
	return workspace.Source{
		Path:       path,
		SheetName:  opt.SheetName,
		SheetIndex: opt.SheetIndex,
		Delimiter:  runeString(opt.Delimiter),
		Decimal:    runeString(opt.DecimalSeparator),
		Thousands:  runeString(opt.ThousandsSeparator),
		MaxRows:    opt.MaxRows,
		DataPath:   opt.DataPath,
	}, nil
}

func runeString(r rune) string {
	switch r {
	case 0:
		return ""
	case '\t':
		return `\t`
	}
	return string(r)
}
