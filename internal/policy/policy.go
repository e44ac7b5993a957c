// Package policy decides who may do what to which library resource.
//
// Allow is evaluated twice per request on scoped resources: once against the
// collection (Resource.Owner nil) before any lookup, and once against the
// loaded record with its owner set.
package policy

import "github.com/google/uuid"

type Operation string

const (
	List     Operation = "list"
	Retrieve Operation = "retrieve"
	Create   Operation = "create"
	Update   Operation = "update"
	Delete   Operation = "delete"
	// Me reads the caller's own member record.
	Me Operation = "me"
)

func (op Operation) ReadOnly() bool {
	return op == List || op == Retrieve || op == Me
}

type Kind string

const (
	Author    Kind = "author"
	Genre     Kind = "genre"
	Publisher Kind = "publisher"
	Book      Kind = "book"
	Copy      Kind = "copy"
	Member    Kind = "member"
	Loan      Kind = "loan"
)

type Caller struct {
	ID            uuid.UUID
	Staff         bool
	Authenticated bool
}

type Resource struct {
	Kind  Kind
	Owner *uuid.UUID
}

func Collection(kind Kind) Resource {
	return Resource{Kind: kind}
}

func Owned(kind Kind, owner uuid.UUID) Resource {
	return Resource{Kind: kind, Owner: &owner}
}

func Allow(op Operation, caller Caller, res Resource) bool {
	if !caller.Authenticated {
		return false
	}

	switch res.Kind {
	case Author, Genre, Publisher, Book:
		return op.ReadOnly() || caller.Staff
	case Copy:
		return caller.Staff
	case Member:
		if caller.Staff {
			return true
		}
		switch op {
		case Me, List:
			return true
		case Retrieve, Update, Delete:
			return res.Owner == nil || *res.Owner == caller.ID
		}
		return false
	case Loan:
		if caller.Staff {
			return true
		}
		switch op {
		case List:
			return true
		case Retrieve:
			return res.Owner == nil || *res.Owner == caller.ID
		}
		return false
	}

	return false
}

// ScopeFor returns the member id a listing must be restricted to, if any.
func ScopeFor(kind Kind, caller Caller) (uuid.UUID, bool) {
	if caller.Staff {
		return uuid.Nil, false
	}
	switch kind {
	case Member, Loan:
		return caller.ID, true
	}
	return uuid.Nil, false
}
