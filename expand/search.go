// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expand

import (
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// A MacroExpansion is a preprocessor's report of one macro use.
type MacroExpansion struct {
	Macro *Macro

	// Name is the span of the macro name at the use site.
	Name Span

	// Range spans the whole use: the name and, for a
	// function-like macro, the argument list.
	Range Span

	// Args holds the raw text of each argument. It is nil for
	// object-like macros.
	Args []string

	// Expanded holds the text of each argument after macro expansion,
	// if the host computes it. It is nil or parallel to Args.
	Expanded []string
}

// ArgMap pairs the parameters of the expanded macro with the
// arguments of ev, raw and expanded.
func (ev *MacroExpansion) ArgMap() (ArgMap, error) {
	am, err := NewArgMap(ev.Macro, ev.Args)
	if err != nil || ev.Expanded == nil {
		return am, err
	}
	if len(ev.Expanded) != len(ev.Args) {
		return nil, xerrors.Errorf("macro %s: %d expanded arguments for %d arguments", ev.Macro.Name, len(ev.Expanded), len(ev.Args))
	}
	texts, err := pairArgs(ev.Macro, ev.Expanded)
	if err != nil {
		return nil, err
	}
	for p, text := range texts {
		a := am[p]
		a.Expanded, a.HasExpanded = text, true
		am[p] = a
	}
	return am, nil
}

// A MacroMatch is the expansion of the macro used at the target location.
type MacroMatch struct {
	Macro *Macro
	Range Span
	Args  ArgMap
	Text  string
}

// A MacroSearch watches the macro expansions of a translation unit
// for the one used at a target location.
//
// Macro uses cannot be found by symbol lookup after preprocessing,
// so a host registers a MacroSearch with its preprocessor before the
// syntax tree exists. The search fires at most once: after the first
// expansion at the target it ignores all further events.
type MacroSearch struct {
	target  Location
	onMatch func(*MacroMatch)
	log     *zap.Logger

	matched bool
	err     error
}

// ObserveMacroExpansions returns a MacroSearch for the macro used at target.
// onMatch is called with the rendered expansion when it is found.
func ObserveMacroExpansions(target Location, onMatch func(*MacroMatch), opts ...Option) *MacroSearch {
	o := newOptions(opts)
	return &MacroSearch{
		target:  CanonicalLocation(target.File, target.Offset),
		onMatch: onMatch,
		log:     o.log,
	}
}

// MacroExpands handles one expansion event.
// Expansions not at the target have no effect.
func (s *MacroSearch) MacroExpands(ev MacroExpansion) {
	if s.matched || ev.Macro == nil || !ev.Name.Contains(s.target) {
		return
	}
	s.matched = true

	m, err := s.expand(ev)
	if err != nil {
		s.err = xerrors.Errorf("expanding macro %s at %v: %w", ev.Macro.Name, ev.Range, err)
		s.log.Debug("macro expansion failed", zap.Error(s.err))
		return
	}
	s.log.Debug("macro matched",
		zap.String("macro", ev.Macro.Name),
		zap.Stringer("range", ev.Range),
		zap.Stringer("def", ev.Macro.Def))
	if s.onMatch != nil {
		s.onMatch(m)
	}
}

func (s *MacroSearch) expand(ev MacroExpansion) (*MacroMatch, error) {
	args, err := ev.ArgMap()
	if err != nil {
		return nil, err
	}
	text, err := RewriteMacro(ev.Macro, args)
	if err != nil {
		return nil, err
	}
	return &MacroMatch{Macro: ev.Macro, Range: ev.Range, Args: args, Text: text}, nil
}

// Matched reports whether a macro was used at the target.
// When Matched is false, the call must be a function call.
func (s *MacroSearch) Matched() bool {
	return s.matched
}

// Err returns the error from rendering the matched macro, if any.
func (s *MacroSearch) Err() error {
	return s.err
}
