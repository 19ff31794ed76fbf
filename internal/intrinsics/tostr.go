package intrinsics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// toStr implements `to-str [format]`: Bool renders as true/false, Str
// passes through unchanged, Num accepts an optional bracket-syntax
// format specifier (`[,]` for thousands grouping via go-humanize,
// `[.<n>f]` for n fixed decimal places, `[.<n>%]` for a percentage at
// n decimal places — original_source/ogma's numfmt::Formatter grammar,
// evidenced by pipeline.rs's own `to-str '[.2%]'` example), and any
// other type falls back to its Stringer. An invalid format specifier
// is a hard parsing error, not a retryable one — no amount of further
// type information fixes a typo.
func toStr(b *eng.Block) (*eng.Step, *errs.Error) {
	var fmtArg *eng.Argument
	if b.ArgsLen() > 0 {
		ab, err := b.NextArg()
		if err != nil {
			return nil, err
		}
		ab.Supplied(nil)
		fa, cerr := ab.Concrete()
		if cerr != nil {
			return nil, cerr
		}
		fmtArg = fa
	}

	inTy := b.InTy()
	blkTag := b.BlkTag()

	return b.Eval(types.TyStr, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		switch inTy.Kind() {
		case types.Bool:
			bv, _ := value.AsBool(v)
			if bv {
				return value.Str("true"), nil
			}
			return value.Str("false"), nil
		case types.Str:
			return v, nil
		case types.Num:
			n, cerr := value.AsNumber(v)
			if cerr != nil {
				return nil, errs.ConversionFailed(types.TyNum, v.Ty())
			}
			spec := ""
			if fmtArg != nil {
				sv, rerr := sameInput(fmtArg, v, ctx)
				if rerr != nil {
					return nil, rerr
				}
				s, scerr := value.AsStr(sv)
				if scerr != nil {
					return nil, errs.ConversionFailed(types.TyStr, sv.Ty())
				}
				spec = string(s)
			}
			out, ferr := formatNumber(n.AsF64(), n.IsInt(), spec)
			if ferr != "" {
				return nil, &errs.Error{
					Cat:     errs.Parsing,
					Desc:    ferr,
					Traces:  []errs.Trace{errs.FromTag(blkTag, "invalid format specifier")},
					HelpMsg: "see the numeric format specifier grammar in `to-str --help`",
					Hard:    true,
				}
			}
			return value.Str(out), nil
		default:
			return value.Str(v.String()), nil
		}
	})
}

// formatNumber implements the bracket-wrapped subset of
// original_source/ogma's numfmt grammar this port carries: `[,]`,
// `[.<n>f]` and `[.<n>%]`. numfmt itself (SI-prefix scaling, explicit
// sign, padding, …) isn't in the retrieved corpus, so only the forms
// the original's own worked example and go-humanize's API can ground
// are implemented; anything else is an invalid format string.
func formatNumber(f float64, isInt bool, spec string) (string, string) {
	if spec == "" {
		if isInt {
			return strconv.FormatInt(int64(f), 10), ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64), ""
	}

	if !strings.HasPrefix(spec, "[") || !strings.HasSuffix(spec, "]") || len(spec) < 2 {
		return "", fmt.Sprintf("invalid format string: expecting bracket syntax `[...]`, found `%s`", spec)
	}
	inner := spec[1 : len(spec)-1]

	switch {
	case inner == ",":
		if isInt {
			return humanize.Comma(int64(f)), ""
		}
		return humanize.CommafWithDigits(f, 2), ""
	case strings.HasPrefix(inner, ".") && strings.HasSuffix(inner, "%"):
		digits, err := strconv.Atoi(inner[1 : len(inner)-1])
		if err != nil || digits < 0 {
			return "", fmt.Sprintf("invalid format string: `%s`", spec)
		}
		return strconv.FormatFloat(f*100, 'f', digits, 64) + "%", ""
	case strings.HasPrefix(inner, ".") && strings.HasSuffix(inner, "f"):
		digits, err := strconv.Atoi(inner[1 : len(inner)-1])
		if err != nil || digits < 0 {
			return "", fmt.Sprintf("invalid format string: `%s`", spec)
		}
		return strconv.FormatFloat(f, 'f', digits, 64), ""
	default:
		return "", fmt.Sprintf("invalid format string: `%s`", spec)
	}
}
