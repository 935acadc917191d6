// Package ros holds the ROS message shapes exchanged with waypoint senders and viewers, and
// reading them back out of recorded rosbags.
package ros

import (
	"encoding/json"
	"io"
	"os"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	rb := rosbag.NewRosBag()
	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag, error")
	}

	return rb, nil
}

// PosesForTopic returns every PoseWithCovarianceStamped recorded on topic, in recording order.
func PosesForTopic(rb *rosbag.RosBag, topic string) ([]PoseWithCovarianceStamped, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return t == topic },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	msgs := rb.TopicsAsJSON[topic]
	if msgs == nil {
		return nil, errors.Errorf("no messages for topic %s", topic)
	}

	var all []PoseWithCovarianceStamped
	for {
		data, err := msgs.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		var message PoseWithCovarianceStampedMessage
		if err := json.Unmarshal(data, &message); err != nil {
			return nil, errors.Wrapf(err, "decoding message on %s", topic)
		}
		all = append(all, message.Data)
	}

	return all, nil
}
