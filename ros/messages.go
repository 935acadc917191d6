package ros

// Time is a ROS timestamp.
type Time struct {
	Secs  int
	Nsecs int
}

// Header is the std_msgs/Header carried by stamped messages.
type Header struct {
	Seq     int
	Stamp   Time
	FrameID string `json:"frame_id"`
}

// Point is a geometry_msgs/Point.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Quaternion is a geometry_msgs/Quaternion.
type Quaternion struct {
	X float64
	Y float64
	Z float64
	W float64
}

// Pose is a geometry_msgs/Pose. Yaw is not part of the ROS message; senders that do not want
// to compute a quaternion may set it instead of Orientation.
type Pose struct {
	Position    Point
	Orientation Quaternion
	Yaw         *float64 `json:"yaw,omitempty"`
}

// PoseWithCovariance is a geometry_msgs/PoseWithCovariance.
type PoseWithCovariance struct {
	Pose       Pose
	Covariance [36]float64
}

// PoseWithCovarianceStamped is the geometry_msgs/PoseWithCovarianceStamped published on the
// waypoint topic.
type PoseWithCovarianceStamped struct {
	Header Header
	Pose   PoseWithCovariance
}

// PoseArray is the geometry_msgs/PoseArray published for visualization.
type PoseArray struct {
	Header Header
	Poses  []Pose
}

// Empty is the std_msgs/Empty used as a parameterless trigger.
type Empty struct{}

// PoseWithCovarianceStampedMessage is a PoseWithCovarianceStamped as it appears in a rosbag
// JSON dump.
type PoseWithCovarianceStampedMessage struct {
	Meta struct {
		Secs  int
		Nsecs int
	}
	Data PoseWithCovarianceStamped
}
