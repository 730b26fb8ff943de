package core

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

// TypeQuery specifies any subset of a type descriptor's identity and
// capability fields. A nil field is a wildcard. A non-nil Name, ModuleName
// or TypeHash must be equal to the descriptor's; a non-nil VisibilityScope
// requires the descriptor to be visible from that scope (IsVisible); a
// capability requirement set to true requires the capability, while one set
// to false places no constraint.
type TypeQuery struct {
	Name            *string
	ModuleName      *string
	TypeHash        *data.TypeHash
	VisibilityScope *Visibility
	SendRequired    *bool
	SyncRequired    *bool
	CopyRequired    *bool
}

// Matches reports whether every specified field of q matches d.
func (q TypeQuery) Matches(d *TypeDescriptor) bool {
	if d == nil {
		return false
	}
	if q.Name != nil && *q.Name != d.Name {
		return false
	}
	if q.ModuleName != nil && *q.ModuleName != d.ModuleName {
		return false
	}
	if q.TypeHash != nil && *q.TypeHash != d.TypeHash() {
		return false
	}
	if q.VisibilityScope != nil && !d.Visibility.IsVisible(*q.VisibilityScope) {
		return false
	}
	if q.SendRequired != nil && *q.SendRequired && !d.Send {
		return false
	}
	if q.SyncRequired != nil && *q.SyncRequired && !d.Sync {
		return false
	}
	if q.CopyRequired != nil && *q.CopyRequired && !d.Copy {
		return false
	}
	return true
}

// Hash computes a stable fingerprint of the query's specified fields, used
// as the registry's LRU cache key. Two queries with identical specified
// fields hash identically; queries differing in any specified field hash
// differently with overwhelming probability.
func (q TypeQuery) Hash() uint64 {
	var b strings.Builder
	writeOptString(&b, "n", q.Name)
	writeOptString(&b, "m", q.ModuleName)
	if q.TypeHash != nil {
		b.WriteString("h:")
		b.WriteString(strconv.FormatUint(uint64(*q.TypeHash), 16))
		b.WriteByte(';')
	}
	if q.VisibilityScope != nil {
		b.WriteString("v:")
		b.WriteString(strconv.Itoa(int(*q.VisibilityScope)))
		b.WriteByte(';')
	}
	writeOptBool(&b, "s", q.SendRequired)
	writeOptBool(&b, "y", q.SyncRequired)
	writeOptBool(&b, "c", q.CopyRequired)
	return xxhash.Sum64String(b.String())
}

func writeOptString(b *strings.Builder, tag string, v *string) {
	if v == nil {
		return
	}
	b.WriteString(tag)
	b.WriteByte(':')
	b.WriteString(*v)
	b.WriteByte(';')
}

func writeOptBool(b *strings.Builder, tag string, v *bool) {
	if v == nil {
		return
	}
	b.WriteString(tag)
	b.WriteByte(':')
	if *v {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	b.WriteByte(';')
}

// FieldQuery locates a field on a type descriptor by name and/or the field
// type's own TypeQuery.
type FieldQuery struct {
	Name      *string
	TypeQuery *TypeQuery
}

func (q FieldQuery) Matches(f *FieldDescriptor) bool {
	if f == nil {
		return false
	}
	if q.Name != nil && *q.Name != f.Name {
		return false
	}
	if q.TypeQuery != nil && !q.TypeQuery.Matches(f.Type) {
		return false
	}
	return true
}

// ParameterQuery matches one positional input or output parameter of a
// function signature.
type ParameterQuery struct {
	Name      *string
	TypeQuery *TypeQuery
}

func (q ParameterQuery) Matches(p *Parameter) bool {
	if p == nil {
		return false
	}
	if q.Name != nil && *q.Name != p.Name {
		return false
	}
	if q.TypeQuery != nil && !q.TypeQuery.Matches(p.Type) {
		return false
	}
	return true
}

// FunctionQuery specifies any subset of a function signature's fields.
// Inputs/Outputs, when non-nil, must match the signature's parameter count
// exactly; each element matches its positional counterpart, with a zero
// ParameterQuery acting as a wildcard for that position.
type FunctionQuery struct {
	Name            *string
	ModuleName      *string
	VisibilityScope *Visibility
	OwnerType       *TypeQuery
	Inputs          []ParameterQuery
	Outputs         []ParameterQuery
}

func (q FunctionQuery) Matches(s *Signature) bool {
	if s == nil {
		return false
	}
	if q.Name != nil && *q.Name != s.Name {
		return false
	}
	if q.ModuleName != nil && *q.ModuleName != s.ModuleName {
		return false
	}
	if q.VisibilityScope != nil && !s.Visibility.IsVisible(*q.VisibilityScope) {
		return false
	}
	if q.OwnerType != nil {
		if s.OwnerType == nil || !q.OwnerType.Matches(s.OwnerType) {
			return false
		}
	}
	if q.Inputs != nil {
		if len(q.Inputs) != len(s.Inputs) {
			return false
		}
		for i := range q.Inputs {
			if !q.Inputs[i].Matches(&s.Inputs[i]) {
				return false
			}
		}
	}
	if q.Outputs != nil {
		if len(q.Outputs) != len(s.Outputs) {
			return false
		}
		for i := range q.Outputs {
			if !q.Outputs[i].Matches(&s.Outputs[i]) {
				return false
			}
		}
	}
	return true
}

// Hash computes a stable fingerprint of the query's specified fields, for
// the registry's function LRU cache.
func (q FunctionQuery) Hash() uint64 {
	var b strings.Builder
	writeOptString(&b, "n", q.Name)
	writeOptString(&b, "m", q.ModuleName)
	if q.VisibilityScope != nil {
		b.WriteString("v:")
		b.WriteString(strconv.Itoa(int(*q.VisibilityScope)))
		b.WriteByte(';')
	}
	if q.OwnerType != nil {
		b.WriteString("o:")
		b.WriteString(strconv.FormatUint(q.OwnerType.Hash(), 16))
		b.WriteByte(';')
	}
	if q.Inputs != nil {
		b.WriteString("i(")
		for _, p := range q.Inputs {
			writeOptString(&b, "n", p.Name)
			if p.TypeQuery != nil {
				b.WriteString(strconv.FormatUint(p.TypeQuery.Hash(), 16))
			}
			b.WriteByte(',')
		}
		b.WriteString(");")
	}
	if q.Outputs != nil {
		b.WriteString("o(")
		for _, p := range q.Outputs {
			writeOptString(&b, "n", p.Name)
			if p.TypeQuery != nil {
				b.WriteString(strconv.FormatUint(p.TypeQuery.Hash(), 16))
			}
			b.WriteByte(',')
		}
		b.WriteString(");")
	}
	return xxhash.Sum64String(b.String())
}
