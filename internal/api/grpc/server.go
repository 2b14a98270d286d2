// Package grpcapi exposes the analysis pipeline over gRPC.
//
// Requests and replies are google.protobuf.Struct messages carrying the same
// JSON documents as the HTTP API, so no generated stubs are needed.
package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/schema"
)

// Service and method names.
const (
	ServiceName   = "speech.delivery.v1.DeliveryAnalysisService"
	AnalyzeMethod = "/" + ServiceName + "/Analyze"
)

// Analyzer is the pipeline surface the server needs.
type Analyzer interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.Report, error)
}

// AnalysisServer is the server API for DeliveryAnalysisService.
type AnalysisServer interface {
	Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Server implements AnalysisServer on top of an Analyzer.
type Server struct {
	analyzer Analyzer
}

// Register adds the analysis service to g.
func Register(g *grpc.Server, analyzer Analyzer) *Server {
	s := &Server{analyzer: analyzer}
	g.RegisterService(&serviceDesc, s)
	return s
}

// Analyze decodes the request document, runs the pipeline and encodes the report.
// Persona transport failures are reported inside the document, not as a status.
func (s *Server) Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req models.AnalysisRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if req.Source == "" {
		req.Source = "grpc"
	}

	rep, err := s.analyzer.Analyze(ctx, &req)
	if rep == nil {
		switch {
		case errors.Is(err, schema.ErrTooLarge), errors.Is(err, schema.ErrNilRequest):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, context.Canceled):
			return nil, status.Error(codes.Canceled, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		case err != nil:
			return nil, status.Error(codes.Internal, err.Error())
		default:
			return nil, status.Error(codes.Internal, "analysis produced no report")
		}
	}

	out, err := ToStruct(rep)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode report: %v", err)
	}
	return out, nil
}

// ToStruct converts any JSON-serializable value into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("struct decode: %w", err)
	}
	return out, nil
}

// FromStruct decodes a Struct into v through its JSON form.
func FromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func analyzeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AnalyzeMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServer).Analyze(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalysisServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "speech/delivery/v1/delivery.proto",
}

// Client calls DeliveryAnalysisService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Analyze sends a request document and returns the report document.
func (c *Client) Analyze(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AnalyzeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeRequest converts req, calls the service and decodes the report.
func (c *Client) AnalyzeRequest(ctx context.Context, req *models.AnalysisRequest, opts ...grpc.CallOption) (*models.Report, error) {
	in, err := ToStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	out, err := c.Analyze(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	var rep models.Report
	if err := FromStruct(out, &rep); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &rep, nil
}
