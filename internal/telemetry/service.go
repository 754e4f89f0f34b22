// Package telemetry streams aircraft attitude over gRPC so the HUD can be
// driven by a live source instead of the synthetic one.
//
// The service is declared by hand with well-known protobuf types, so no
// generated code is needed:
//
//	service Telemetry {
//	  rpc StreamAttitude(google.protobuf.Empty) returns (stream google.protobuf.Struct);
//	}
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"elrs-hud/internal/flight"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "hud.telemetry.v1.Telemetry"

const streamAttitudeMethod = "/" + ServiceName + "/StreamAttitude"

// Message field names.
const (
	FieldPitch   = "pitch"
	FieldRoll    = "roll"
	FieldHeading = "heading"
	FieldTime    = "time"
)

// ErrMalformed is returned when a message lacks a field or has the wrong type.
var ErrMalformed = errors.New("telemetry: malformed attitude message")

// AttitudeStreamer is the server side of the Telemetry service.
type AttitudeStreamer interface {
	StreamAttitude(req *emptypb.Empty, stream grpc.ServerStream) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AttitudeStreamer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamAttitude",
			Handler:       streamAttitudeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "hud/telemetry/v1/telemetry.proto",
}

func streamAttitudeHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(AttitudeStreamer).StreamAttitude(in, stream)
}

// RegisterAttitudeStreamer registers srv on s.
func RegisterAttitudeStreamer(s grpc.ServiceRegistrar, srv AttitudeStreamer) {
	s.RegisterService(&serviceDesc, srv)
}

// EncodeAttitude builds the wire message for att sampled at at.
func EncodeAttitude(att flight.Attitude, at time.Time) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldPitch:   structpb.NewNumberValue(att.Pitch),
		FieldRoll:    structpb.NewNumberValue(att.Roll),
		FieldHeading: structpb.NewNumberValue(att.Heading),
		FieldTime:    structpb.NewStringValue(at.UTC().Format(time.RFC3339Nano)),
	}}
}

// DecodeAttitude parses a wire message. The time field is optional.
func DecodeAttitude(msg *structpb.Struct) (flight.Attitude, time.Time, error) {
	var att flight.Attitude
	var err error
	if att.Pitch, err = number(msg, FieldPitch); err != nil {
		return flight.Attitude{}, time.Time{}, err
	}
	if att.Roll, err = number(msg, FieldRoll); err != nil {
		return flight.Attitude{}, time.Time{}, err
	}
	if att.Heading, err = number(msg, FieldHeading); err != nil {
		return flight.Attitude{}, time.Time{}, err
	}

	var at time.Time
	if v, ok := msg.GetFields()[FieldTime]; ok {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return flight.Attitude{}, time.Time{}, fmt.Errorf("%w: %s is not a string", ErrMalformed, FieldTime)
		}
		if at, err = time.Parse(time.RFC3339Nano, s.StringValue); err != nil {
			return flight.Attitude{}, time.Time{}, fmt.Errorf("%w: %s: %v", ErrMalformed, FieldTime, err)
		}
	}
	return att, at, nil
}

func number(msg *structpb.Struct, name string) (float64, error) {
	v, ok := msg.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformed, name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformed, name)
	}
	return n.NumberValue, nil
}
