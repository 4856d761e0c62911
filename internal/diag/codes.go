package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Module registration and scope graph
	ScopeInfo                Code = 2000
	ScopeModuleCountMismatch Code = 2001
	ScopeEmptyModulePath     Code = 2002

	// Names and imports
	SemaInfo                 Code = 3000
	SemaError                Code = 3001
	SemaDuplicateSymbol      Code = 3002
	SemaUnresolvedSymbol     Code = 3003
	SemaAmbiguousName        Code = 3004
	SemaTypeMemberAccess     Code = 3005
	SemaModuleMemberNotFound Code = 3006
	SemaUnresolvedImport     Code = 3007
	SemaDuplicateImport      Code = 3008
	SemaNotAType             Code = 3009
	SemaNotAStruct           Code = 3010
	SemaNotAValue            Code = 3011
	SemaModuleAsValue        Code = 3012

	// Declarations and cycles
	SemaStructCycle       Code = 3100
	SemaConstCycle        Code = 3101
	SemaTraitFieldDefault Code = 3103
	SemaChildrenNotLast   Code = 3104

	// Types
	SemaTypeMismatch          Code = 3200
	SemaInvalidBinaryOperands Code = 3201
	SemaInvalidUnaryOperand   Code = 3202
	SemaNoMember              Code = 3203
	SemaAttributeNotSettable  Code = 3204
	SemaNotRenderable         Code = 3205
	SemaRenderTraitMissing    Code = 3206

	// Struct init
	SemaTooManyFields      Code = 3300
	SemaFieldNotSupplied   Code = 3301
	SemaUnknownField       Code = 3302
	SemaFieldSuppliedTwice Code = 3303
	SemaChildrenNotAllowed Code = 3304

	// Entry point
	SemaEntrypointNotFound  Code = 3400
	SemaMultipleEntrypoints Code = 3401

	// Project configuration
	ProjInfo              Code = 5000
	ProjConfigNotFound    Code = 5001
	ProjConfigInvalid     Code = 5002
	ProjInvalidModulePath Code = 5003
	ProjUnknownTraceLevel Code = 5004
	ProjUnknownTraceMode  Code = 5005

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		ScopeInfo:                 "Scope information",
		ScopeModuleCountMismatch:  "Module paths do not match compilation units",
		ScopeEmptyModulePath:      "Empty module path",
		SemaInfo:                  "Semantic information",
		SemaError:                 "Semantic error",
		SemaDuplicateSymbol:       "Duplicate symbol",
		SemaUnresolvedSymbol:      "Unresolved symbol",
		SemaAmbiguousName:         "Ambiguous name",
		SemaTypeMemberAccess:      "Member access on a type name",
		SemaModuleMemberNotFound:  "Module member not found",
		SemaUnresolvedImport:      "Unresolved import",
		SemaDuplicateImport:       "Duplicate import",
		SemaNotAType:              "Name is not a type",
		SemaNotAStruct:            "Name is not a struct",
		SemaNotAValue:             "Name is not a value",
		SemaModuleAsValue:         "Module used as a value",
		SemaStructCycle:           "Recursive struct definition",
		SemaConstCycle:            "Const cycle detected",
		SemaTraitFieldDefault:     "Trait field must not have a default",
		SemaChildrenNotLast:       "Children field must be last",
		SemaTypeMismatch:          "Type mismatch",
		SemaInvalidBinaryOperands: "Invalid operands for binary operator",
		SemaInvalidUnaryOperand:   "Invalid operand for unary operator",
		SemaNoMember:              "No such member",
		SemaAttributeNotSettable:  "Attribute cannot be set",
		SemaNotRenderable:         "Value is not renderable",
		SemaRenderTraitMissing:    "Render trait not found",
		SemaTooManyFields:         "Too many fields",
		SemaFieldNotSupplied:      "Field not supplied",
		SemaUnknownField:          "Unknown field",
		SemaFieldSuppliedTwice:    "Field supplied twice",
		SemaChildrenNotAllowed:    "Struct does not accept children",
		SemaEntrypointNotFound:    "Entrypoint not found",
		SemaMultipleEntrypoints:   "Multiple entrypoints",
		ProjInfo:                  "Project information",
		ProjConfigNotFound:        "Project configuration not found",
		ProjConfigInvalid:         "Invalid project configuration",
		ProjInvalidModulePath:     "Invalid module path",
		ProjUnknownTraceLevel:     "Unknown trace level",
		ProjUnknownTraceMode:      "Unknown trace mode",
		ObsInfo:                   "Observability information",
		ObsTimings:                "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SCP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
