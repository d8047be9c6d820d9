package domain

// MemberID is an identifier for a family member. It is assigned when a member
// is first committed and stays stable across edits.
type MemberID string

// FamilyID is an internal identifier for a stored family record.
type FamilyID string
