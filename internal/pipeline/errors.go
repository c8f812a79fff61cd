package pipeline

import "fmt"

// MembershipNotFoundError is returned when the player lookup succeeds but has
// no membership id for the account.
type MembershipNotFoundError struct {
	AccountId string
}

func (e *MembershipNotFoundError) Error() string {
	return fmt.Sprintf("membershipId not found for accountId: %s", e.AccountId)
}

// UnknownClassError is returned for a character whose class hash is not one
// of the three known classes.
type UnknownClassError struct {
	CharacterId string
	Hash        uint32
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("character %s has unknown class hash %d", e.CharacterId, e.Hash)
}

// MissingStateError is returned by a stage run before the stage that
// populates one of its inputs.
type MissingStateError struct {
	Stage string
	Field string
}

func (e *MissingStateError) Error() string {
	return fmt.Sprintf("stage %s requires %s, run the stage that populates it first", e.Stage, e.Field)
}
