/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"encoding/json"
)

// MessageType is the tag carried by every message.
type MessageType string

const (
	SolverSpecCastType      MessageType = "SOLVER_SPEC_CAST"
	ProblemSpecCastType     MessageType = "PROBLEM_SPEC_CAST"
	CreateEvaluatorCastType MessageType = "CREATE_EVALUATOR_CAST"
	DropEvaluatorCastType   MessageType = "DROP_EVALUATOR_CAST"
	EvaluateCallType        MessageType = "EVALUATE_CALL"
	EvaluateOkReplyType     MessageType = "EVALUATE_OK_REPLY"
	AskCallType             MessageType = "ASK_CALL"
	AskReplyType            MessageType = "ASK_REPLY"
	TellCallType            MessageType = "TELL_CALL"
	TellReplyType           MessageType = "TELL_REPLY"
)

// Message is one turn on a channel.
type Message interface {
	MessageType() MessageType
}

type SolverSpecCast struct {
	SolverSpec
}

type ProblemSpecCast struct {
	ProblemSpec
}

type CreateEvaluatorCast struct {
	ID int64 `json:"id"`
}

type DropEvaluatorCast struct {
	ID int64 `json:"id"`
}

type EvaluateCall struct {
	ID     int64        `json:"id"`
	Params []ParamValue `json:"params"`
	Budget Budget       `json:"budget"`
}

type EvaluateOkReply struct {
	Values []float64 `json:"values"`
	Budget Budget    `json:"budget"`
}

// AskCall asks the solver for the next trial; the hint is the id to use for a new trial.
type AskCall struct {
	IDHint int64 `json:"id_hint"`
}

type AskReply struct {
	ID     int64        `json:"id"`
	Params []ParamValue `json:"params"`
	Budget Budget       `json:"budget"`
}

type TellCall struct {
	ID     int64     `json:"id"`
	Values []float64 `json:"values"`
	Budget Budget    `json:"budget"`
}

type TellReply struct{}

func (*SolverSpecCast) MessageType() MessageType      { return SolverSpecCastType }
func (*ProblemSpecCast) MessageType() MessageType     { return ProblemSpecCastType }
func (*CreateEvaluatorCast) MessageType() MessageType { return CreateEvaluatorCastType }
func (*DropEvaluatorCast) MessageType() MessageType   { return DropEvaluatorCastType }
func (*EvaluateCall) MessageType() MessageType        { return EvaluateCallType }
func (*EvaluateOkReply) MessageType() MessageType     { return EvaluateOkReplyType }
func (*AskCall) MessageType() MessageType             { return AskCallType }
func (*AskReply) MessageType() MessageType            { return AskReplyType }
func (*TellCall) MessageType() MessageType            { return TellCallType }
func (*TellReply) MessageType() MessageType           { return TellReplyType }

// NewMessage returns an empty message for the supplied type.
func NewMessage(t MessageType) (Message, error) {
	switch t {
	case SolverSpecCastType:
		return &SolverSpecCast{}, nil
	case ProblemSpecCastType:
		return &ProblemSpecCast{}, nil
	case CreateEvaluatorCastType:
		return &CreateEvaluatorCast{}, nil
	case DropEvaluatorCastType:
		return &DropEvaluatorCast{}, nil
	case EvaluateCallType:
		return &EvaluateCall{}, nil
	case EvaluateOkReplyType:
		return &EvaluateOkReply{}, nil
	case AskCallType:
		return &AskCall{}, nil
	case AskReplyType:
		return &AskReply{}, nil
	case TellCallType:
		return &TellCall{}, nil
	case TellReplyType:
		return &TellReply{}, nil
	}
	return nil, NewError(ErrUnknownMessage, "unknown message type %q", t)
}

// EncodeMessage returns the single line JSON representation of the message, including its type tag.
func EncodeMessage(m Message) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(m.MessageType())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag

	return json.Marshal(fields)
}

// DecodeMessage parses a single JSON message using its type tag.
func DecodeMessage(data []byte) (Message, error) {
	header := struct {
		Type MessageType `json:"type"`
	}{}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, err
	}
	if header.Type == "" {
		return nil, NewError(ErrUnknownMessage, "message has no type")
	}

	m, err := NewMessage(header.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
