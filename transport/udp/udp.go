// Package udp carries the follower's channels over UDP. Every datagram is one JSON Envelope
// naming the topic it belongs to.
package udp

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/followwaypoints/logging"
	"go.viam.com/followwaypoints/ros"
	"go.viam.com/followwaypoints/transport"
	"go.viam.com/followwaypoints/transport/inmem"
	"go.viam.com/followwaypoints/waypoint"
)

const (
	defaultReadBuffer = 65507
	readPollInterval  = 250 * time.Millisecond
)

// Envelope is the wire format of every datagram. Msg is absent for triggers.
type Envelope struct {
	Topic string          `json:"topic"`
	Msg   json.RawMessage `json:"msg,omitempty"`
}

// Topics names the topics a Listener routes.
type Topics struct {
	Poses string
	Reset string
	Ready string
}

// Listener receives datagrams and routes them onto a Bus.
type Listener struct {
	conn    *net.UDPConn
	bus     *inmem.Bus
	topics  Topics
	logger  logging.Logger
	workers *utils.StoppableWorkers
}

// NewListener binds addr and starts routing datagrams to bus.
func NewListener(addr string, readBuffer int, topics Topics, bus *inmem.Bus, logger logging.Logger) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving listen address %q", addr)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %q", addr)
	}
	if readBuffer <= 0 {
		readBuffer = defaultReadBuffer
	}

	l := &Listener{conn: conn, bus: bus, topics: topics, logger: logger}
	l.workers = utils.NewBackgroundStoppableWorkers(func(ctx context.Context) {
		l.readLoop(ctx, readBuffer)
	})
	logger.Infow("listening for waypoint messages", "addr", conn.LocalAddr().String())
	return l, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Close stops the read loop and releases the socket.
func (l *Listener) Close() error {
	l.workers.Stop()
	return l.conn.Close()
}

func (l *Listener) readLoop(ctx context.Context, readBuffer int) {
	buf := make([]byte, readBuffer)
	for {
		if ctx.Err() != nil {
			return
		}
		if err := l.conn.SetReadDeadline(time.Now().Add(readPollInterval)); err != nil {
			l.logger.Errorw("failed to set read deadline", "error", err)
			return
		}
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.logger.Warnw("read failed", "error", err)
			continue
		}
		if err := l.Dispatch(ctx, buf[:n]); err != nil {
			l.logger.Warnw("dropping datagram", "from", from.String(), "error", err)
		}
	}
}

// Dispatch decodes one datagram and routes it.
func (l *Listener) Dispatch(ctx context.Context, payload []byte) error {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return errors.Wrap(err, "decoding envelope")
	}

	switch env.Topic {
	case l.topics.Poses:
		var msg ros.PoseWithCovarianceStamped
		if err := json.Unmarshal(env.Msg, &msg); err != nil {
			return errors.Wrapf(err, "decoding pose on %s", env.Topic)
		}
		return l.bus.PublishPose(ctx, waypoint.FromROS(msg))
	case l.topics.Reset:
		l.logger.Debugw("reset trigger", "waiters", l.bus.Reset().Trigger())
		return nil
	case l.topics.Ready:
		l.logger.Debugw("ready trigger", "waiters", l.bus.Ready().Trigger())
		return nil
	default:
		return errors.Errorf("unknown topic %q", env.Topic)
	}
}

var _ = transport.PoseArrayPublisher(&Publisher{})

// Publisher sends pose arrays to a fixed address.
type Publisher struct {
	conn  *net.UDPConn
	topic string
}

// NewPublisher dials addr. Every pose array is sent wrapped in an Envelope for topic.
func NewPublisher(addr, topic string) (*Publisher, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving visualization address %q", addr)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %q", addr)
	}
	return &Publisher{conn: conn, topic: topic}, nil
}

// PublishPoseArray sends msg as one datagram.
func (p *Publisher) PublishPoseArray(ctx context.Context, msg ros.PoseArray) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Envelope{Topic: p.topic, Msg: raw})
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := p.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	_, err = p.conn.Write(payload)
	return errors.Wrap(err, "sending pose array")
}

// Close releases the socket.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
