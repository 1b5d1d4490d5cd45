// Package telemetry republishes body status as protobuf messages
// described in telemetry.proto.
package telemetry

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/xpider/pkg/inside"
)

// HeartBeat mirrors message HeartBeat in telemetry.proto.
type HeartBeat struct {
	RobotId              string   `protobuf:"bytes,1,opt,name=robot_id,json=robotId,proto3" json:"robot_id,omitempty"`
	Timestamp            int64    `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	StepCounter          uint32   `protobuf:"varint,3,opt,name=step_counter,json=stepCounter,proto3" json:"step_counter,omitempty"`
	ObstacleDistance     uint32   `protobuf:"varint,4,opt,name=obstacle_distance,json=obstacleDistance,proto3" json:"obstacle_distance,omitempty"`
	BatteryVoltage       float32  `protobuf:"fixed32,5,opt,name=battery_voltage,json=batteryVoltage,proto3" json:"battery_voltage,omitempty"`
	Yaw                  float32  `protobuf:"fixed32,6,opt,name=yaw,proto3" json:"yaw,omitempty"`
	Pitch                float32  `protobuf:"fixed32,7,opt,name=pitch,proto3" json:"pitch,omitempty"`
	Roll                 float32  `protobuf:"fixed32,8,opt,name=roll,proto3" json:"roll,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

// Reset implements proto.Message.
func (m *HeartBeat) Reset() { *m = HeartBeat{} }

// String implements proto.Message.
func (m *HeartBeat) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*HeartBeat) ProtoMessage() {}

// FromHeartBeat converts a received heartbeat.
func FromHeartBeat(robotID string, at time.Time, hb inside.HeartBeat) *HeartBeat {
	return &HeartBeat{
		RobotId:          robotID,
		Timestamp:        at.UnixNano(),
		StepCounter:      uint32(hb.StepCounter),
		ObstacleDistance: uint32(hb.ObstacleDistance),
		BatteryVoltage:   hb.BatteryVoltage,
		Yaw:              hb.Yaw(),
		Pitch:            hb.Pitch(),
		Roll:             hb.Roll(),
	}
}

// Time returns Timestamp as time.Time.
func (m *HeartBeat) Time() time.Time {
	return time.Unix(0, m.Timestamp)
}

// Marshal encodes the message.
func Marshal(m *HeartBeat) ([]byte, error) {
	return proto.Marshal(m)
}

// Unmarshal decodes a message.
func Unmarshal(data []byte) (*HeartBeat, error) {
	m := &HeartBeat{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
