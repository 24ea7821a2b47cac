package models

// ProblemCode is one entry of the locally mirrored defect catalog. The
// external source is authoritative; rows here are only ever written by the
// catalog synchronizer.
type ProblemCode struct {
	Code     int     `json:"code"`
	Name     string  `json:"name"`
	PartType *string `json:"part_type"`
}

// Same reports whether the mirrored row already matches the incoming
// definition, in which case synchronization leaves it untouched.
func (p ProblemCode) Same(name string, partType *string) bool {
	if p.Name != name {
		return false
	}
	if (p.PartType == nil) != (partType == nil) {
		return false
	}
	return p.PartType == nil || *p.PartType == *partType
}
