package intrinsics

import (
	"strings"

	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// getTableRow implements `get colname [default] [--Ty]` over a
// TableRow input: colname is resolved at eval time (it may itself be
// an expression), an optional second argument supplies a fallback
// value when the entry's runtime type doesn't match, and an optional
// `--Ty` flag pins the expected entry type when it can't otherwise be
// inferred from a default argument.
func getTableRow(b *eng.Block) (*eng.Step, *errs.Error) {
	nameArgB, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	nameArgB.Supplied(nil)
	nameArg, err := nameArgB.Concrete()
	if err != nil {
		return nil, err
	}

	var defaultArg *eng.Argument
	if b.ArgsLen() > 0 {
		defB, err := b.NextArg()
		if err != nil {
			return nil, err
		}
		defB.Supplied(nil)
		defaultArg, err = defB.Concrete()
		if err != nil {
			return nil, err
		}
	}

	outTy, err := getOutputType(b, defaultArg, nameArgB.Tag())
	if err != nil {
		return nil, err
	}

	return b.Eval(outTy, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		row, cerr := value.AsTableRow(v)
		if cerr != nil {
			return nil, errs.ConversionFailed(types.TyTabRow, v.Ty())
		}
		nameVal, rerr := sameInput(nameArg, v, ctx)
		if rerr != nil {
			return nil, rerr
		}
		colName, scerr := value.AsStr(nameVal)
		if scerr != nil {
			return nil, errs.ConversionFailed(types.TyStr, nameVal.Ty())
		}
		entry, eerr := tableRowEntry(row, string(colName), nameArgB.Tag())
		if eerr != nil {
			return nil, eerr
		}
		if entry.Ty().Equal(outTy) {
			return entry, nil
		}
		if defaultArg != nil {
			return sameInput(defaultArg, v, ctx)
		}
		return nil, errs.UnexpEntryTy(outTy, entry.Ty(), row.Idx, string(colName), nameArgB.Tag())
	})
}

// getOutputType resolves get's declared output type from either a
// `--Ty` flag or a default argument's own inferred type; with neither
// present the output type can't be determined statically.
func getOutputType(b *eng.Block, defaultArg *eng.Argument, at tag.Tag) (types.Type, *errs.Error) {
	if ftag, ok := b.GetFlag(""); ok {
		t, ok2 := resolveTypeName(b.TypeTable(), strings.TrimPrefix(ftag.Str(), "--"))
		if !ok2 {
			return types.Type{}, errs.TypeNotFound(ftag)
		}
		return t, nil
	}
	if defaultArg != nil {
		t := defaultArg.OutTy()
		if t == nil {
			return types.Type{}, errs.UnknownArgOutputType(at)
		}
		return *t, nil
	}
	return types.Type{}, errs.UnknownArgOutputType(at)
}

func tableRowEntry(row value.TableRow, colName string, at tag.Tag) (value.Value, *errs.Error) {
	entry, headerOK, inBounds := row.Entry(colName)
	if !headerOK {
		return nil, errs.HeaderNotFound(colName, at)
	}
	if !inBounds {
		return nil, errs.RowOutOfBounds(row.Idx, at)
	}
	return entry, nil
}

// getProduct implements `get field` over any user product type (Sum
// types have no fields to fetch and fall through to field_not_found).
func getProduct(b *eng.Block) (*eng.Step, *errs.Error) {
	inTy := b.InTy()
	if inTy.Kind() != types.Def {
		return nil, errs.WrongOpInputType(inTy, b.OpTag())
	}

	fieldArgB, err := b.NextArg()
	if err != nil {
		return nil, err
	}

	idx, field, aerr := productField(inTy, fieldArgB.Tag())
	if aerr != nil {
		return nil, aerr
	}

	return b.Eval(field.Ty, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		data, cerr := value.AsOgmaData(v, inTy)
		if cerr != nil {
			return nil, errs.ConversionFailed(inTy, v.Ty())
		}
		return data.Field(idx), nil
	})
}

func productField(ty types.Type, fieldTag tag.Tag) (int, types.Field, *errs.Error) {
	if ty.Def().Structure.IsSum() {
		return 0, types.Field{}, errs.FieldNotFound(fieldTag, ty.Def())
	}
	idx, field, ok := ty.Def().FieldByName(fieldTag.Str())
	if !ok {
		return 0, types.Field{}, errs.FieldNotFound(fieldTag, ty.Def())
	}
	return idx, field, nil
}

// dot implements `.field`: the same access as `get field` against a
// product type, or as `get field` against a TableRow with no default.
// On a TableRow the output type comes only from a `--Ty` flag; without
// one compilation fails with an unknown argument output type.
func dot(b *eng.Block) (*eng.Step, *errs.Error) {
	inTy := b.InTy()

	fieldArgB, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	fieldTag := fieldArgB.Tag()

	switch inTy.Kind() {
	case types.TabRow:
		outTy, terr := getOutputType(b, nil, fieldTag)
		if terr != nil {
			return nil, terr
		}
		return b.Eval(outTy, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
			row, cerr := value.AsTableRow(v)
			if cerr != nil {
				return nil, errs.ConversionFailed(types.TyTabRow, v.Ty())
			}
			entry, eerr := tableRowEntry(row, fieldTag.Str(), fieldTag)
			if eerr != nil {
				return nil, eerr
			}
			if !entry.Ty().Equal(outTy) {
				return nil, errs.UnexpEntryTy(outTy, entry.Ty(), row.Idx, fieldTag.Str(), fieldTag)
			}
			return entry, nil
		})
	case types.Def:
		idx, field, aerr := productField(inTy, fieldTag)
		if aerr != nil {
			return nil, aerr
		}
		return b.Eval(field.Ty, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
			data, cerr := value.AsOgmaData(v, inTy)
			if cerr != nil {
				return nil, errs.ConversionFailed(inTy, v.Ty())
			}
			return data.Field(idx), nil
		})
	default:
		return nil, errs.WrongOpInputType(inTy, b.OpTag())
	}
}
