// Package networktables is a minimal NetworkTables 4 client.
//
// It only publishes: topics are announced on first write and values are
// sent as MessagePack frames over the NT4 websocket. Nothing is
// subscribed, so the server never pushes values back. Time is kept in
// step with the server using the NT4 time sync exchange so published
// timestamps land on the robot's clock.
package networktables

import "fmt"

// Protocol constants for NetworkTables 4.0.
const (
	DefaultPort = 5810
	Subprotocol = "networktables.first.wpi.edu"

	// timeSyncID is the pubuid reserved for time sync frames.
	timeSyncID = -1
)

// Type is an NT4 data type.
type Type int

// Wire type ids used in binary frames.
const (
	TypeBoolean Type = 0
	TypeDouble  Type = 1
	TypeInt     Type = 2
	TypeFloat   Type = 3
	TypeString  Type = 4
)

// String returns the type name used in publish messages.
func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeDouble:
		return "double"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Entry is one value to publish under a full topic name.
type Entry struct {
	Name  string
	Type  Type
	Value any
}

// TopicName joins a table and key into an NT4 topic path.
func TopicName(table, key string) string {
	return "/" + table + "/" + key
}
