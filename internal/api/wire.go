package api

import (
	"errors"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var errWireType = errors.New("unexpected wire type")

// Zero values are omitted on encode, as proto3 does for scalar fields.

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	// A Timestamp with in-range seconds always marshals.
	ts, _ := proto.Marshal(timestamppb.New(t))
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, ts)
}

func appendMessage(b []byte, num protowire.Number, m message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

// fieldFunc consumes the value of one field and reports how many bytes it
// used. Returning 0 with a nil error marks the field as unknown.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func consumeFields(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m == 0 {
			if m = protowire.ConsumeFieldValue(num, typ, b); m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeRaw(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, errWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	v, n, err := consumeRaw(typ, b)
	if err != nil {
		return 0, err
	}
	*dst = string(v)
	return n, nil
}

// consumeBytes copies the value; grpc may reuse the receive buffer.
func consumeBytes(typ protowire.Type, b []byte, dst *[]byte) (int, error) {
	v, n, err := consumeRaw(typ, b)
	if err != nil {
		return 0, err
	}
	*dst = append([]byte(nil), v...)
	return n, nil
}

func consumeInt64(typ protowire.Type, b []byte, dst *int64) (int, error) {
	if typ != protowire.VarintType {
		return 0, errWireType
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = int64(v)
	return n, nil
}

func consumeInt(typ protowire.Type, b []byte, dst *int) (int, error) {
	var v int64
	n, err := consumeInt64(typ, b, &v)
	if err == nil {
		*dst = int(v)
	}
	return n, err
}

func consumeTime(typ protowire.Type, b []byte, dst *time.Time) (int, error) {
	v, n, err := consumeRaw(typ, b)
	if err != nil {
		return 0, err
	}
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(v, &ts); err != nil {
		return 0, err
	}
	*dst = ts.AsTime()
	return n, nil
}

func consumeDocument(typ protowire.Type, b []byte, dst **Document) (int, error) {
	v, n, err := consumeRaw(typ, b)
	if err != nil {
		return 0, err
	}
	d := &Document{}
	if err := d.consumeWire(v); err != nil {
		return 0, err
	}
	*dst = d
	return n, nil
}

func (*PingRequest) appendWire(b []byte) []byte { return b }

func (*PingRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return 0, nil })
}

func (m *PingResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Status)
}

func (m *PingResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.Status)
		}
		return 0, nil
	})
}

func (m *RegisterUserRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	b = appendBytes(b, 2, m.Salt)
	return appendBytes(b, 3, m.Verifier)
}

func (m *RegisterUserRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Username)
		case 2:
			return consumeBytes(typ, b, &m.Salt)
		case 3:
			return consumeBytes(typ, b, &m.Verifier)
		}
		return 0, nil
	})
}

func (m *RegisterUserResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.ID)
}

func (m *RegisterUserResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.ID)
		}
		return 0, nil
	})
}

func (m *GetSaltRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Username)
}

func (m *GetSaltRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.Username)
		}
		return 0, nil
	})
}

func (m *GetSaltResponse) appendWire(b []byte) []byte {
	return appendBytes(b, 1, m.Salt)
}

func (m *GetSaltResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBytes(typ, b, &m.Salt)
		}
		return 0, nil
	})
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	return appendBytes(b, 2, m.VerifierCandidate)
}

func (m *LoginRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Username)
		case 2:
			return consumeBytes(typ, b, &m.VerifierCandidate)
		}
		return 0, nil
	})
}

func appendTokens(b []byte, access, refresh string) []byte {
	b = appendString(b, 1, access)
	return appendString(b, 2, refresh)
}

func consumeTokens(b []byte, access, refresh *string) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, access)
		case 2:
			return consumeString(typ, b, refresh)
		}
		return 0, nil
	})
}

func (m *LoginResponse) appendWire(b []byte) []byte {
	return appendTokens(b, m.AccessToken, m.RefreshToken)
}

func (m *LoginResponse) consumeWire(b []byte) error {
	return consumeTokens(b, &m.AccessToken, &m.RefreshToken)
}

func (m *RefreshTokenRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.RefreshToken)
}

func (m *RefreshTokenRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.RefreshToken)
		}
		return 0, nil
	})
}

func (m *RefreshTokenResponse) appendWire(b []byte) []byte {
	return appendTokens(b, m.AccessToken, m.RefreshToken)
}

func (m *RefreshTokenResponse) consumeWire(b []byte) error {
	return consumeTokens(b, &m.AccessToken, &m.RefreshToken)
}

func (m *Document) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.TripID)
	b = appendString(b, 3, m.CreatorID)
	b = appendString(b, 4, m.Title)
	b = appendString(b, 5, m.Category)
	b = appendString(b, 6, m.FilePath)
	b = appendString(b, 7, m.FileName)
	b = appendString(b, 8, m.MimeType)
	b = appendInt64(b, 9, m.SizeBytes)
	b = appendInt64(b, 10, int64(m.EncryptionVersion))
	b = appendString(b, 11, m.EncryptionIV)
	b = appendString(b, 12, m.EncryptionSalt)
	b = appendTime(b, 13, m.CreatedAt)
	return appendTime(b, 14, m.UpdatedAt)
}

func (m *Document) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.ID)
		case 2:
			return consumeString(typ, b, &m.TripID)
		case 3:
			return consumeString(typ, b, &m.CreatorID)
		case 4:
			return consumeString(typ, b, &m.Title)
		case 5:
			return consumeString(typ, b, &m.Category)
		case 6:
			return consumeString(typ, b, &m.FilePath)
		case 7:
			return consumeString(typ, b, &m.FileName)
		case 8:
			return consumeString(typ, b, &m.MimeType)
		case 9:
			return consumeInt64(typ, b, &m.SizeBytes)
		case 10:
			return consumeInt(typ, b, &m.EncryptionVersion)
		case 11:
			return consumeString(typ, b, &m.EncryptionIV)
		case 12:
			return consumeString(typ, b, &m.EncryptionSalt)
		case 13:
			return consumeTime(typ, b, &m.CreatedAt)
		case 14:
			return consumeTime(typ, b, &m.UpdatedAt)
		}
		return 0, nil
	})
}

func (m *RequestUploadRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.TripID)
}

func (m *RequestUploadRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.TripID)
		}
		return 0, nil
	})
}

func (m *RequestUploadResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.FilePath)
	b = appendString(b, 2, m.UploadURL)
	return appendTime(b, 3, m.ExpiresAt)
}

func (m *RequestUploadResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.FilePath)
		case 2:
			return consumeString(typ, b, &m.UploadURL)
		case 3:
			return consumeTime(typ, b, &m.ExpiresAt)
		}
		return 0, nil
	})
}

func (m *CreateDocumentRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.TripID)
	b = appendString(b, 2, m.Title)
	b = appendString(b, 3, m.Category)
	b = appendString(b, 4, m.FilePath)
	b = appendString(b, 5, m.FileName)
	b = appendString(b, 6, m.MimeType)
	b = appendInt64(b, 7, m.SizeBytes)
	b = appendInt64(b, 8, int64(m.EncryptionVersion))
	b = appendString(b, 9, m.EncryptionIV)
	return appendString(b, 10, m.EncryptionSalt)
}

func (m *CreateDocumentRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.TripID)
		case 2:
			return consumeString(typ, b, &m.Title)
		case 3:
			return consumeString(typ, b, &m.Category)
		case 4:
			return consumeString(typ, b, &m.FilePath)
		case 5:
			return consumeString(typ, b, &m.FileName)
		case 6:
			return consumeString(typ, b, &m.MimeType)
		case 7:
			return consumeInt64(typ, b, &m.SizeBytes)
		case 8:
			return consumeInt(typ, b, &m.EncryptionVersion)
		case 9:
			return consumeString(typ, b, &m.EncryptionIV)
		case 10:
			return consumeString(typ, b, &m.EncryptionSalt)
		}
		return 0, nil
	})
}

func appendDocument(b []byte, num protowire.Number, d *Document) []byte {
	if d == nil {
		return b
	}
	return appendMessage(b, num, d)
}

func (m *CreateDocumentResponse) appendWire(b []byte) []byte {
	return appendDocument(b, 1, m.Document)
}

func (m *CreateDocumentResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeDocument(typ, b, &m.Document)
		}
		return 0, nil
	})
}

func (m *ListDocumentsRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.TripID)
}

func (m *ListDocumentsRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.TripID)
		}
		return 0, nil
	})
}

func (m *ListDocumentsResponse) appendWire(b []byte) []byte {
	for _, d := range m.Documents {
		if d == nil {
			d = &Document{}
		}
		b = appendMessage(b, 1, d)
	}
	return b
}

func (m *ListDocumentsResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		var d *Document
		n, err := consumeDocument(typ, b, &d)
		if err == nil {
			m.Documents = append(m.Documents, d)
		}
		return n, err
	})
}

func (m *GetDocumentRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.ID)
}

func (m *GetDocumentRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.ID)
		}
		return 0, nil
	})
}

func (m *GetDocumentResponse) appendWire(b []byte) []byte {
	b = appendDocument(b, 1, m.Document)
	return appendString(b, 2, m.DownloadURL)
}

func (m *GetDocumentResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeDocument(typ, b, &m.Document)
		case 2:
			return consumeString(typ, b, &m.DownloadURL)
		}
		return 0, nil
	})
}

func (m *UpdateDocumentRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Title)
	return appendString(b, 3, m.Category)
}

func (m *UpdateDocumentRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.ID)
		case 2:
			return consumeString(typ, b, &m.Title)
		case 3:
			return consumeString(typ, b, &m.Category)
		}
		return 0, nil
	})
}

func (m *UpdateDocumentResponse) appendWire(b []byte) []byte {
	return appendDocument(b, 1, m.Document)
}

func (m *UpdateDocumentResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeDocument(typ, b, &m.Document)
		}
		return 0, nil
	})
}

func (m *DeleteDocumentRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.ID)
}

func (m *DeleteDocumentRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.ID)
		}
		return 0, nil
	})
}

func (*DeleteDocumentResponse) appendWire(b []byte) []byte { return b }

func (*DeleteDocumentResponse) consumeWire(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return 0, nil })
}
