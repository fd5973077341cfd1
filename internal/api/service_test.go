package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	encproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type fakeServer struct {
	UnimplementedVaultServiceServer
	gotCreate *CreateDocumentRequest
}

func (f *fakeServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (f *fakeServer) CreateDocument(_ context.Context, in *CreateDocumentRequest) (*CreateDocumentResponse, error) {
	f.gotCreate = in
	return &CreateDocumentResponse{Document: &Document{
		ID:             "doc-1",
		TripID:         in.TripID,
		Title:          in.Title,
		Category:       in.Category,
		EncryptionIV:   in.EncryptionIV,
		EncryptionSalt: in.EncryptionSalt,
		CreatedAt:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}}, nil
}

func (f *fakeServer) GetSalt(_ context.Context, in *GetSaltRequest) (*GetSaltResponse, error) {
	return &GetSaltResponse{Salt: []byte{0, 1, 2, 0xff}}, nil
}

func (f *fakeServer) DeleteDocument(context.Context, *DeleteDocumentRequest) (*DeleteDocumentResponse, error) {
	return nil, status.Error(codes.NotFound, "not found")
}

func startServer(t *testing.T, srv VaultServiceServer, opts ...grpc.ServerOption) VaultServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterVaultServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewVaultServiceClient(conn)
}

func TestService_RoundTrip(t *testing.T) {
	fs := &fakeServer{}
	c := startServer(t, fs)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)

	req := &CreateDocumentRequest{
		TripID:            "trip-1",
		Title:             "Passport scan",
		Category:          "passport",
		FilePath:          "u/k",
		EncryptionVersion: 1,
		EncryptionIV:      "AAAAAAAAAAAAAAAA",
		EncryptionSalt:    "AAAAAAAAAAAAAAAAAAAAAA==",
	}
	resp, err := c.CreateDocument(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, req, fs.gotCreate)
	require.NotNil(t, resp.Document)
	assert.Equal(t, "doc-1", resp.Document.ID)
	assert.Equal(t, req.EncryptionIV, resp.Document.EncryptionIV)
	assert.True(t, resp.Document.CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))

	salt, err := c.GetSalt(ctx, &GetSaltRequest{Username: "u"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 0xff}, salt.Salt)
}

func TestService_StatusPropagates(t *testing.T) {
	c := startServer(t, &fakeServer{})

	_, err := c.DeleteDocument(context.Background(), &DeleteDocumentRequest{ID: "x"})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestService_Unimplemented(t *testing.T) {
	c := startServer(t, &fakeServer{})

	_, err := c.Login(context.Background(), &LoginRequest{Username: "u"})
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestService_InterceptorSeesFullMethod(t *testing.T) {
	var seen string
	icpt := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}
	c := startServer(t, &fakeServer{}, grpc.UnaryInterceptor(icpt))

	_, err := c.Ping(context.Background(), &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, MethodPing, seen)
}

func TestCodec_RegisteredAsDefault(t *testing.T) {
	c := encoding.GetCodec(encproto.Name)
	require.NotNil(t, c)
	assert.IsType(t, codec{}, c)
}

func TestCodec_DocumentRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 7, 8, 9, 10, 11, time.UTC)
	in := &ListDocumentsResponse{Documents: []*Document{
		{
			ID:                "d1",
			TripID:            "trip-1",
			Title:             "Boarding pass",
			Category:          "flight",
			SizeBytes:         4096,
			EncryptionVersion: 1,
			EncryptionIV:      "zc3Nzc3Nzc3Nzc3N",
			EncryptionSalt:    "AAAAAAAAAAAAAAAAAAAAAA==",
			CreatedAt:         created,
			UpdatedAt:         created.Add(time.Hour),
		},
		{ID: "d2"},
	}}

	b, err := codec{}.Marshal(in)
	require.NoError(t, err)

	var out ListDocumentsResponse
	require.NoError(t, codec{}.Unmarshal(b, &out))
	assert.Equal(t, in, &out)
}

func TestCodec_FieldNumbers(t *testing.T) {
	b, err := codec{}.Marshal(&LoginRequest{Username: "ann", VerifierCandidate: []byte{1, 2}})
	require.NoError(t, err)

	want := protowire.AppendTag(nil, 1, protowire.BytesType)
	want = protowire.AppendString(want, "ann")
	want = protowire.AppendTag(want, 2, protowire.BytesType)
	want = protowire.AppendBytes(want, []byte{1, 2})
	assert.Equal(t, want, b)
}

func TestCodec_SkipsUnknownFields(t *testing.T) {
	b := protowire.AppendTag(nil, 7, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "OK")

	var out PingResponse
	require.NoError(t, codec{}.Unmarshal(b, &out))
	assert.Equal(t, "OK", out.Status)
}

func TestCodec_Errors(t *testing.T) {
	wrongType := protowire.AppendTag(nil, 1, protowire.VarintType)
	wrongType = protowire.AppendVarint(wrongType, 1)

	truncated := protowire.AppendTag(nil, 1, protowire.BytesType)
	truncated = protowire.AppendVarint(truncated, 10)

	for name, data := range map[string][]byte{"wrong type": wrongType, "truncated": truncated} {
		t.Run(name, func(t *testing.T) {
			var out GetSaltRequest
			assert.Error(t, codec{}.Unmarshal(data, &out))
		})
	}

	_, err := codec{}.Marshal(struct{}{})
	assert.Error(t, err)
}

func TestCodec_ProtoMessagesPassThrough(t *testing.T) {
	ts := timestamppb.New(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	b, err := codec{}.Marshal(ts)
	require.NoError(t, err)

	var out timestamppb.Timestamp
	require.NoError(t, codec{}.Unmarshal(b, &out))
	assert.True(t, proto.Equal(ts, &out))
}
