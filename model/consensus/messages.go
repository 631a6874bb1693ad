package consensus

import "fmt"

// ConsensusMessage is any artifact stored in the consensus pool.
// Implementations: *BlockProposal, *Notarization, *Finalization, *CatchUpPackage.
type ConsensusMessage interface {
	Height() Height
}

// ChangeActionKind is the kind of mutation a ChangeAction applies to the pool.
type ChangeActionKind int

const (
	// AddToValidated adds an artifact produced locally to the validated section.
	AddToValidated ChangeActionKind = iota
	// MoveToValidated moves an artifact received from a peer into the validated section.
	MoveToValidated
	// RemoveFromValidated removes an artifact from the validated section.
	RemoveFromValidated
	// PurgeValidatedBelow removes every validated artifact below a height.
	PurgeValidatedBelow
)

func (k ChangeActionKind) String() string {
	switch k {
	case AddToValidated:
		return "add_to_validated"
	case MoveToValidated:
		return "move_to_validated"
	case RemoveFromValidated:
		return "remove_from_validated"
	case PurgeValidatedBelow:
		return "purge_validated_below"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ChangeAction is one mutation of the consensus pool. Message is unset for PurgeValidatedBelow,
// Height is only set for PurgeValidatedBelow.
type ChangeAction struct {
	Kind    ChangeActionKind
	Message ConsensusMessage
	Height  Height
}

// ChangeSet is an ordered list of pool mutations produced by one consensus round.
type ChangeSet []ChangeAction

func NewAddToValidated(msg ConsensusMessage) ChangeAction {
	return ChangeAction{Kind: AddToValidated, Message: msg}
}

func NewMoveToValidated(msg ConsensusMessage) ChangeAction {
	return ChangeAction{Kind: MoveToValidated, Message: msg}
}

func NewRemoveFromValidated(msg ConsensusMessage) ChangeAction {
	return ChangeAction{Kind: RemoveFromValidated, Message: msg}
}

func NewPurgeValidatedBelow(height Height) ChangeAction {
	return ChangeAction{Kind: PurgeValidatedBelow, Height: height}
}
