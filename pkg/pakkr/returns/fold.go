package returns

import "maps"

// Fold rolls the contracts of a sequence of steps up into the contract of the
// whole sequence. A nil entry stands for a step without a declaration, which
// yields a single value of any type. Positional declarations replace earlier
// ones while named fields accumulate.
func Fold(contracts ...Contract) Contract {
	positional := []Type{Any}
	fields := Fields{}

	for _, c := range contracts {
		switch c := c.(type) {
		case nil:
			positional = []Type{Any}
		case *NoReturnContract:
			positional = nil
		case *MetaContract:
			positional = nil
			maps.Copy(fields, c.fields)
		case *ValueContract:
			positional = c.types
			if c.meta != nil {
				maps.Copy(fields, c.meta.fields)
			}
		}
	}

	var meta *MetaContract
	if len(fields) > 0 {
		meta = &MetaContract{fields: fields}
	}
	switch {
	case len(positional) > 0:
		return &ValueContract{types: positional, meta: meta}
	case meta != nil:
		return meta
	}
	return NoReturn()
}
