package component

import (
	"errors"
	"fmt"
)

// Player role names.
const (
	Generator     = "generator"
	Discriminator = "discriminator"
)

var (
	// ErrOverlappingPlayers is returned when one parameter belongs to both players.
	ErrOverlappingPlayers = errors.New("player parameter groups overlap")
	// ErrUncoveredParameter is returned when a trainable parameter belongs to no player.
	ErrUncoveredParameter = errors.New("trainable parameter not owned by any player")
	// ErrForeignParameter is returned when a group holds a parameter the model does not expose.
	ErrForeignParameter = errors.New("player parameter not exposed by model")
)

// ParamGroup is the named set of parameters one optimizer is bound to.
type ParamGroup struct {
	Name   string
	Params []*Param
}

// Names lists the parameter names in group order.
func (g ParamGroup) Names() []string {
	names := make([]string, len(g.Params))
	for i, p := range g.Params {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether p (by identity) is part of the group.
func (g ParamGroup) Contains(p *Param) bool {
	for _, q := range g.Params {
		if q == p {
			return true
		}
	}
	return false
}

// Players is the adversarial decomposition of a model.
type Players struct {
	Generator     ParamGroup
	Discriminator ParamGroup
}

// Group returns the group for a role name.
func (p Players) Group(role string) (ParamGroup, bool) {
	switch role {
	case Generator:
		return p.Generator, true
	case Discriminator:
		return p.Discriminator, true
	}
	return ParamGroup{}, false
}

// Validate checks the split against the model's parameters: the two groups
// must be disjoint, contain only model parameters, and together cover every
// trainable parameter.
func (p Players) Validate(all []*Param) error {
	owner := make(map[*Param]string, len(all))
	exposed := make(map[*Param]struct{}, len(all))
	for _, param := range all {
		exposed[param] = struct{}{}
	}

	for _, g := range []ParamGroup{p.Generator, p.Discriminator} {
		for _, param := range g.Params {
			if _, ok := exposed[param]; !ok {
				return fmt.Errorf("%w: %s in %s", ErrForeignParameter, param.Name, g.Name)
			}
			if prev, ok := owner[param]; ok {
				if prev == g.Name {
					continue
				}
				return fmt.Errorf("%w: %s is in both %s and %s", ErrOverlappingPlayers, param.Name, prev, g.Name)
			}
			owner[param] = g.Name
		}
	}

	for _, param := range Trainable(all) {
		if _, ok := owner[param]; !ok {
			return fmt.Errorf("%w: %s", ErrUncoveredParameter, param.Name)
		}
	}
	return nil
}
