// Package main runs the waypoint follower against the network transport and the simulated
// navigator.
package main

import (
	"context"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/followwaypoints/config"
	"go.viam.com/followwaypoints/follower"
	"go.viam.com/followwaypoints/logging"
	"go.viam.com/followwaypoints/services/navigation/fake"
	"go.viam.com/followwaypoints/transport"
	"go.viam.com/followwaypoints/transport/bag"
	"go.viam.com/followwaypoints/transport/inmem"
	"go.viam.com/followwaypoints/transport/udp"
)

var logger = logging.NewLogger("follow-waypoints")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"0,required,usage=follower config file"`
	Debug      bool   `flag:"debug"`
	Bag        string `flag:"bag,usage=replay waypoints from a rosbag instead of the network"`
	BagTopic   string `flag:"bag-topic,usage=topic to replay from the rosbag, defaults to the waypoint topic"`
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg, err := config.Read(argsParsed.ConfigFile)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Level())
	if argsParsed.Debug {
		logger.SetLevel(logging.DEBUG)
	}
	defer utils.UncheckedErrorFunc(logger.Sync)
	if cfg.LogFile != "" {
		fileAppender := logging.NewFileAppender(cfg.LogFile)
		logger.AddAppender(fileAppender)
		defer func() {
			err = multierr.Combine(err, fileAppender.Close())
		}()
	}

	bus := inmem.NewBus()
	defer func() {
		err = multierr.Combine(err, bus.Close())
	}()

	listener, err := udp.NewListener(cfg.UDP.ListenAddr, cfg.UDP.ReadBuffer, cfg.Topics(), bus, logger.Sublogger("udp"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, listener.Close())
	}()

	var visualization transport.Publishers
	if cfg.UDP.VisualizationAddr != "" {
		pub, err := udp.NewPublisher(cfg.UDP.VisualizationAddr, cfg.VisualizationTopic)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Combine(err, pub.Close())
		}()
		visualization = append(visualization, pub)
	}

	var poses transport.PoseSource = bus
	if argsParsed.Bag != "" {
		topic := argsParsed.BagTopic
		if topic == "" {
			topic = "/" + strings.TrimPrefix(cfg.PoseTopic, "/")
		}
		src, err := bag.NewSource(argsParsed.Bag, topic)
		if err != nil {
			return err
		}
		logger.Infow("replaying waypoints from rosbag", "file", argsParsed.Bag, "topic", topic, "count", src.Remaining())
		poses = src
	}

	nav := fake.NewNavigator(cfg.Navigation, clock.New(), logger.Sublogger("navigation"))
	defer func() {
		err = multierr.Combine(err, nav.Close(context.Background()))
	}()
	logger.Info("connecting to navigator")
	if err := nav.WaitForServer(ctx); err != nil {
		return errors.Wrap(err, "waiting for navigator")
	}
	logger.Info("connected to navigator")

	f, err := follower.NewFollower(follower.Deps{
		Poses:         poses,
		Reset:         bus.Reset(),
		Ready:         bus.Ready(),
		Visualization: visualization,
		Navigator:     nav,
	}, cfg.FollowerOptions(), logger.Sublogger("follower"))
	if err != nil {
		return err
	}
	f.Start()
	defer func() {
		err = multierr.Combine(err, f.Close(context.Background()))
	}()

	if err := f.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
