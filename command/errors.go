package command

import (
	"errors"

	"github.com/Harshan-Nayak/xlist/pkg/types"
)

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = types.ErrActorRequired
	// ErrProfileIDRequired indicates the target profile id was missing.
	ErrProfileIDRequired = types.ErrProfileIDRequired
	// ErrInvalidCategory indicates a category outside the fixed category set.
	ErrInvalidCategory = errors.New("xlist: unknown category")
	// ErrInvalidHandle indicates a handle with no account name, such as "@".
	ErrInvalidHandle = errors.New("xlist: handle has no account name")
	// ErrEmptyPatch indicates an update carried no field to change.
	ErrEmptyPatch = errors.New("xlist: profile patch is empty")
	// ErrNegativeFollowers indicates a follower count below zero.
	ErrNegativeFollowers = errors.New("xlist: followers count must not be negative")
	// ErrClickTrackingDisabled indicates click recording is disabled via feature gate.
	ErrClickTrackingDisabled = errors.New("xlist: click tracking disabled")
	// ErrClickCommandRequired indicates the tracker was built without a command.
	ErrClickCommandRequired = errors.New("xlist: click record command required")
)
