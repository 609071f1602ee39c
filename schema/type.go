package schema

import "fmt"

// Type is the logical type of a field, independent of any target's native
// type system. Target profiles map each logical type to a native descriptor.
type Type int

// Logical field types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeTime
	TypeEnum
	TypeRef
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeString:  "string",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeBool:    "bool",
	TypeTime:    "datetime",
	TypeEnum:    "enum",
	TypeRef:     "ref",
}

func (t Type) String() string {
	if t < endTypes && t > TypeInvalid {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports whether t is a declared logical type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports whether t is a numeric logical type.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeFloat
}

// ParseType converts the textual description form to a Type.
func ParseType(s string) (Type, error) {
	for t := TypeInvalid + 1; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("schema: unknown field type %q", s)
}

// ConstraintKind names one constraint in the target-independent vocabulary.
// Profiles declare a directive per kind; a kind with no directive is
// unsupported on that target and must fail mapping, never be dropped.
type ConstraintKind int

// Constraint kinds.
const (
	ConstraintMinLen ConstraintKind = iota
	ConstraintMaxLen
	ConstraintMin
	ConstraintMax
	ConstraintPattern
	ConstraintUnique
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintMinLen:
		return "min_length"
	case ConstraintMaxLen:
		return "max_length"
	case ConstraintMin:
		return "min"
	case ConstraintMax:
		return "max"
	case ConstraintPattern:
		return "pattern"
	case ConstraintUnique:
		return "unique"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}
