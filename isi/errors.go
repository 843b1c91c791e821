// Package isi implements the Iroha Special Instruction sum type and its
// executor: deterministic WSV state transitions gated by a pluggable
// permission validator (spec §4.E). Grounded on
// original_source/core/src/smartcontracts/isi/{mod,account,asset}.rs and
// iroha_data_model/src/isi.rs for the instruction shape, and
// default_validator/src/isi/mod.rs plus
// permissions_validators/src/public_blockchain/key_value.rs for the
// Pass/Deny/Skip executor contract.
package isi

import "github.com/pkg/errors"

// ValidationError reports that the executor denied an instruction or
// query (spec §7 Validation kind).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "isi: validation denied: " + e.Reason }

var ErrValidationDenied = errors.New("isi: validation denied")

func (e *ValidationError) Unwrap() error { return ErrValidationDenied }

// InstructionError wraps any error produced while executing one
// instruction with the instruction's own description, so a rejected
// transaction carries enough structure for clients polling for status
// (spec §7 "PipelineRejection").
type InstructionError struct {
	Instruction string
	Cause       error
}

func (e *InstructionError) Error() string {
	return "isi: " + e.Instruction + ": " + e.Cause.Error()
}

func (e *InstructionError) Unwrap() error { return e.Cause }

func wrapErr(instruction string, cause error) error {
	if cause == nil {
		return nil
	}
	return &InstructionError{Instruction: instruction, Cause: cause}
}
