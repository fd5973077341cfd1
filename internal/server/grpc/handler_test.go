package grpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tripvault/internal/api"
	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/logging"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
	"github.com/dmitrijs2005/tripvault/internal/server/services"
)

// ---- fakes ----

type fakeUser struct {
	refreshResp *services.TokenPair
	refreshErr  error

	regResp *models.User
	regErr  error

	saltResp []byte
	saltErr  error

	loginResp *services.TokenPair
	loginErr  error
}

func (f *fakeUser) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}
func (f *fakeUser) Register(ctx context.Context, username string, salt []byte, verifier []byte) (*models.User, error) {
	return f.regResp, f.regErr
}
func (f *fakeUser) GetSalt(ctx context.Context, username string) ([]byte, error) {
	return f.saltResp, f.saltErr
}
func (f *fakeUser) Login(ctx context.Context, username string, verifierCandidate []byte) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}

type fakeDocs struct {
	ticket *models.UploadTicket
	doc    *models.Document
	docs   []*models.Document
	url    string
	err    error

	gotUser string
	gotNew  services.NewDocument
}

func (f *fakeDocs) RequestUpload(ctx context.Context, userID, tripID string) (*models.UploadTicket, error) {
	f.gotUser = userID
	return f.ticket, f.err
}
func (f *fakeDocs) Create(ctx context.Context, userID string, in services.NewDocument) (*models.Document, error) {
	f.gotUser, f.gotNew = userID, in
	return f.doc, f.err
}
func (f *fakeDocs) List(ctx context.Context, userID, tripID string) ([]*models.Document, error) {
	f.gotUser = userID
	return f.docs, f.err
}
func (f *fakeDocs) Get(ctx context.Context, userID, id string) (*models.Document, string, error) {
	f.gotUser = userID
	return f.doc, f.url, f.err
}
func (f *fakeDocs) UpdateDetails(ctx context.Context, userID, id, title, cat string) (*models.Document, error) {
	f.gotUser = userID
	return f.doc, f.err
}
func (f *fakeDocs) Delete(ctx context.Context, userID, id string) error {
	f.gotUser = userID
	return f.err
}

// ---- helpers ----

func newServer(u userSvc, d documentSvc) *GRPCServer {
	return &GRPCServer{
		address:   "127.0.0.1:0",
		users:     u,
		documents: d,
		logger:    logging.Nop(),
		jwtSecret: []byte("k"),
	}
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), UserIDKey, userID)
}

func sampleDoc() *models.Document {
	return &models.Document{
		ID:                "d1",
		TripID:            "trip-1",
		CreatorID:         "u1",
		Title:             "Visa",
		Category:          category.Visa,
		FilePath:          "users/u1/2026/01/01/x",
		FileName:          "visa.jpg",
		MimeType:          "image/jpeg",
		SizeBytes:         10,
		EncryptionVersion: 1,
		EncryptionIV:      "iv",
		EncryptionSalt:    "salt",
	}
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeDocs{})
	resp, err := s.Ping(context.Background(), &api.PingRequest{})
	if err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if resp.Status != "OK" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
}

func TestRefreshToken_OK(t *testing.T) {
	u := &fakeUser{
		refreshResp: &services.TokenPair{AccessToken: "a", RefreshToken: "r"},
	}
	s := newServer(u, &fakeDocs{})
	resp, err := s.RefreshToken(context.Background(), &api.RefreshTokenRequest{RefreshToken: "r0"})
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if resp.AccessToken != "a" || resp.RefreshToken != "r" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
}

func TestRefreshToken_Errors(t *testing.T) {
	s := newServer(&fakeUser{refreshErr: errors.New("oops")}, &fakeDocs{})
	_, err := s.RefreshToken(context.Background(), &api.RefreshTokenRequest{RefreshToken: "r0"})
	if status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v (err=%v)", status.Code(err), err)
	}

	s = newServer(&fakeUser{refreshErr: common.ErrRefreshTokenExpired}, &fakeDocs{})
	_, err = s.RefreshToken(context.Background(), &api.RefreshTokenRequest{RefreshToken: "r0"})
	if status.Code(err) != codes.Unauthenticated || status.Convert(err).Message() == common.RefreshTokenExpiredMessage {
		t.Fatalf("refresh expiry must not look like access token expiry: %v", err)
	}
}

func TestRegisterUser_OK(t *testing.T) {
	u := &fakeUser{regResp: &models.User{ID: "42", UserName: "u"}}
	s := newServer(u, &fakeDocs{})
	resp, err := s.RegisterUser(context.Background(), &api.RegisterUserRequest{
		Username: "u", Salt: []byte("s"), Verifier: []byte("v"),
	})
	if err != nil {
		t.Fatalf("RegisterUser error: %v", err)
	}
	if resp.ID != "42" {
		t.Fatalf("unexpected id %q", resp.ID)
	}
}

func TestRegisterUser_Errors(t *testing.T) {
	cases := map[error]codes.Code{
		errors.New("db down"):         codes.Internal,
		common.ErrAlreadyExists:       codes.AlreadyExists,
		common.ErrorIncorrectMetadata: codes.InvalidArgument,
	}
	for in, want := range cases {
		s := newServer(&fakeUser{regErr: in}, &fakeDocs{})
		_, err := s.RegisterUser(context.Background(), &api.RegisterUserRequest{Username: "u"})
		if status.Code(err) != want {
			t.Fatalf("%v: want %v, got %v", in, want, status.Code(err))
		}
	}
}

func TestGetSalt_OK(t *testing.T) {
	u := &fakeUser{saltResp: []byte("SALT123")}
	s := newServer(u, &fakeDocs{})
	resp, err := s.GetSalt(context.Background(), &api.GetSaltRequest{Username: "u"})
	if err != nil {
		t.Fatalf("GetSalt error: %v", err)
	}
	if !bytes.Equal(resp.Salt, []byte("SALT123")) {
		t.Fatalf("unexpected salt: %q", resp.Salt)
	}
}

func TestGetSalt_InternalOnError(t *testing.T) {
	u := &fakeUser{saltErr: errors.New("no user")}
	s := newServer(u, &fakeDocs{})
	_, err := s.GetSalt(context.Background(), &api.GetSaltRequest{Username: "u"})
	if status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v", status.Code(err))
	}
}

func TestLogin_OK(t *testing.T) {
	u := &fakeUser{loginResp: &services.TokenPair{AccessToken: "A", RefreshToken: "R"}}
	s := newServer(u, &fakeDocs{})
	resp, err := s.Login(context.Background(), &api.LoginRequest{
		Username: "u", VerifierCandidate: []byte("vv"),
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.AccessToken != "A" || resp.RefreshToken != "R" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	s := newServer(&fakeUser{loginErr: common.ErrorUnauthorized}, &fakeDocs{})
	_, err := s.Login(context.Background(), &api.LoginRequest{Username: "u"})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", status.Code(err))
	}
}

func TestDocumentHandlers_RequireUserID(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeDocs{})
	ctx := context.Background()

	calls := map[string]func() error{
		"RequestUpload": func() error { _, err := s.RequestUpload(ctx, &api.RequestUploadRequest{}); return err },
		"Create":        func() error { _, err := s.CreateDocument(ctx, &api.CreateDocumentRequest{}); return err },
		"List":          func() error { _, err := s.ListDocuments(ctx, &api.ListDocumentsRequest{}); return err },
		"Get":           func() error { _, err := s.GetDocument(ctx, &api.GetDocumentRequest{}); return err },
		"Update":        func() error { _, err := s.UpdateDocument(ctx, &api.UpdateDocumentRequest{}); return err },
		"Delete":        func() error { _, err := s.DeleteDocument(ctx, &api.DeleteDocumentRequest{}); return err },
	}
	for name, call := range calls {
		if err := call(); status.Code(err) != codes.Internal {
			t.Fatalf("%s: want Internal, got %v", name, status.Code(err))
		}
	}
}

func TestRequestUpload_OK(t *testing.T) {
	exp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	d := &fakeDocs{ticket: &models.UploadTicket{FilePath: "users/u1/k", URL: "http://put", ExpiresAt: exp}}
	s := newServer(&fakeUser{}, d)

	resp, err := s.RequestUpload(authed("u1"), &api.RequestUploadRequest{TripID: "t"})
	if err != nil {
		t.Fatalf("RequestUpload error: %v", err)
	}
	if resp.FilePath != "users/u1/k" || resp.UploadURL != "http://put" || !resp.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if d.gotUser != "u1" {
		t.Fatalf("user id not passed through: %q", d.gotUser)
	}
}

func TestCreateDocument_MapsFields(t *testing.T) {
	d := &fakeDocs{doc: sampleDoc()}
	s := newServer(&fakeUser{}, d)

	req := &api.CreateDocumentRequest{
		TripID: "trip-1", Title: "Visa", Category: "visa", FilePath: "users/u1/2026/01/01/x",
		FileName: "visa.jpg", MimeType: "image/jpeg", SizeBytes: 10, EncryptionVersion: 1,
		EncryptionIV: "iv", EncryptionSalt: "salt",
	}
	resp, err := s.CreateDocument(authed("u1"), req)
	if err != nil {
		t.Fatalf("CreateDocument error: %v", err)
	}
	if resp.Document.Category != "visa" || resp.Document.ID != "d1" {
		t.Fatalf("unexpected document: %+v", resp.Document)
	}
	if d.gotNew.EncryptionIV != "iv" || d.gotNew.SizeBytes != 10 || d.gotNew.Category != "visa" {
		t.Fatalf("request not mapped: %+v", d.gotNew)
	}
}

func TestCreateDocument_ErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: title is required", common.ErrorIncorrectMetadata), codes.InvalidArgument},
		{common.ErrorBlobMissing, codes.FailedPrecondition},
		{common.ErrAlreadyExists, codes.AlreadyExists},
		{errors.New("db"), codes.Internal},
	}
	for _, tc := range cases {
		s := newServer(&fakeUser{}, &fakeDocs{err: tc.err})
		_, err := s.CreateDocument(authed("u1"), &api.CreateDocumentRequest{})
		if status.Code(err) != tc.want {
			t.Fatalf("%v: want %v, got %v", tc.err, tc.want, status.Code(err))
		}
	}
}

func TestInvalidArgument_CarriesDetail(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeDocs{err: fmt.Errorf("%w: title is required", common.ErrorIncorrectMetadata)})
	_, err := s.CreateDocument(authed("u1"), &api.CreateDocumentRequest{})
	if msg := status.Convert(err).Message(); msg != "incorrect metadata: title is required" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestListDocuments_OK(t *testing.T) {
	d := &fakeDocs{docs: []*models.Document{sampleDoc(), sampleDoc()}}
	s := newServer(&fakeUser{}, d)

	resp, err := s.ListDocuments(authed("u1"), &api.ListDocumentsRequest{TripID: "trip-1"})
	if err != nil {
		t.Fatalf("ListDocuments error: %v", err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("want 2 documents, got %d", len(resp.Documents))
	}

	empty, err := newServer(&fakeUser{}, &fakeDocs{}).ListDocuments(authed("u1"), &api.ListDocumentsRequest{TripID: "t"})
	if err != nil || empty.Documents == nil {
		t.Fatalf("empty list must be non-nil: %+v err=%v", empty, err)
	}
}

func TestGetDocument_OK_and_NotFound(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeDocs{doc: sampleDoc(), url: "http://get"})
	resp, err := s.GetDocument(authed("u1"), &api.GetDocumentRequest{ID: "d1"})
	if err != nil {
		t.Fatalf("GetDocument error: %v", err)
	}
	if resp.DownloadURL != "http://get" || resp.Document.EncryptionSalt != "salt" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	s = newServer(&fakeUser{}, &fakeDocs{err: common.ErrorNotFound})
	_, err = s.GetDocument(authed("u1"), &api.GetDocumentRequest{ID: "d1"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", status.Code(err))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	doc := sampleDoc()
	doc.Title = "renamed"
	s := newServer(&fakeUser{}, &fakeDocs{doc: doc})

	resp, err := s.UpdateDocument(authed("u1"), &api.UpdateDocumentRequest{ID: "d1", Title: "renamed", Category: "visa"})
	if err != nil || resp.Document.Title != "renamed" {
		t.Fatalf("UpdateDocument: resp=%+v err=%v", resp, err)
	}
	if _, err := s.DeleteDocument(authed("u1"), &api.DeleteDocumentRequest{ID: "d1"}); err != nil {
		t.Fatalf("DeleteDocument error: %v", err)
	}

	s = newServer(&fakeUser{}, &fakeDocs{err: common.ErrorNotFound})
	_, err = s.DeleteDocument(authed("u1"), &api.DeleteDocumentRequest{ID: "d1"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", status.Code(err))
	}
}
