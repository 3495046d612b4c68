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

package channel

import (
	"bufio"
	"bytes"
	"io"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/metrics"
)

// Channel sends and receives one JSON message per line over a blocking byte stream.
// A channel is not safe for concurrent use, turns alternate per the protocol.
type Channel struct {
	// Log receives one debug entry per message.
	Log logr.Logger

	r *bufio.Reader
	w *bufio.Writer
}

// New returns a channel reading messages from r and writing messages to w.
func New(r io.Reader, w io.Writer, log logr.Logger) *Channel {
	return &Channel{
		Log: log,
		r:   bufio.NewReader(r),
		w:   bufio.NewWriter(w),
	}
}

// Send writes the message followed by a line terminator and flushes it immediately.
func (c *Channel) Send(m v1alpha1.Message) error {
	data, err := v1alpha1.EncodeMessage(m)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", m.MessageType())
	}

	if _, err := c.w.Write(append(data, '\n')); err != nil {
		return errors.Wrapf(err, "failed to send %s", m.MessageType())
	}
	if err := c.w.Flush(); err != nil {
		return errors.Wrapf(err, "failed to send %s", m.MessageType())
	}

	metrics.Messages.WithLabelValues("sent", string(m.MessageType())).Inc()
	c.Log.V(1).Info("Sent message", "message", string(data))
	return nil
}

// Receive blocks until one complete message is available. The end of the
// stream on a message boundary is reported as a bare io.EOF.
func (c *Channel) Receive() (v1alpha1.Message, error) {
	for {
		line, err := c.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to receive message")
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}

		m, derr := v1alpha1.DecodeMessage(line)
		if derr != nil {
			return nil, errors.Wrapf(derr, "failed to decode message %q", line)
		}

		metrics.Messages.WithLabelValues("received", string(m.MessageType())).Inc()
		c.Log.V(1).Info("Received message", "message", string(line))
		return m, nil
	}
}

// Conn is one end of a message channel.
type Conn interface {
	// Send writes a single message.
	Send(m v1alpha1.Message) error
	// Receive blocks for the next message.
	Receive() (v1alpha1.Message, error)
}

var _ Conn = &Channel{}

// Pipe returns two channels connected in memory. Calling the returned function ends the stream
// in both directions, the next Receive on either channel returns io.EOF.
func Pipe(log logr.Logger) (*Channel, *Channel, func()) {
	lr, rw := io.Pipe()
	rr, lw := io.Pipe()
	closeFn := func() {
		_ = lw.Close()
		_ = rw.Close()
	}
	return New(lr, lw, log), New(rr, rw, log), closeFn
}
