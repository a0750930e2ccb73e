package shared

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// User is the public view of an account.
type User struct {
	ID    string
	Email string
	Name  string
}

// Session is the public view of a session row.
type Session struct {
	ID     int64
	UserID string
	Token  string
}

// Fields builds a request or response message.
func Fields(kv map[string]*structpb.Value) *structpb.Struct {
	return &structpb.Struct{Fields: kv}
}

// String reads a string field, returning "" when absent or of another kind.
func String(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// Int reads a numeric field.
func Int(s *structpb.Struct, name string) int64 {
	return int64(s.GetFields()[name].GetNumberValue())
}

// Bool reads a boolean field.
func Bool(s *structpb.Struct, name string) bool {
	return s.GetFields()[name].GetBoolValue()
}

// Strings reads a list of strings, skipping other kinds.
func Strings(s *structpb.Struct, name string) []string {
	values := s.GetFields()[name].GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, v := range values {
		if sv, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			out = append(out, sv.StringValue)
		}
	}
	return out
}

// StringList encodes a list of strings.
func StringList(items []string) *structpb.Value {
	values := make([]*structpb.Value, 0, len(items))
	for _, item := range items {
		values = append(values, structpb.NewStringValue(item))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func (u User) Value() *structpb.Value {
	return structpb.NewStructValue(Fields(map[string]*structpb.Value{
		"id":    structpb.NewStringValue(u.ID),
		"email": structpb.NewStringValue(u.Email),
		"name":  structpb.NewStringValue(u.Name),
	}))
}

func UserFrom(s *structpb.Struct) User {
	return User{ID: String(s, "id"), Email: String(s, "email"), Name: String(s, "name")}
}

// UserField decodes a nested user object.
func UserField(s *structpb.Struct, name string) User {
	return UserFrom(s.GetFields()[name].GetStructValue())
}

// Users decodes a list of user objects.
func Users(s *structpb.Struct, name string) []User {
	values := s.GetFields()[name].GetListValue().GetValues()
	out := make([]User, 0, len(values))
	for _, v := range values {
		out = append(out, UserFrom(v.GetStructValue()))
	}
	return out
}

func (ss Session) Value() *structpb.Value {
	return structpb.NewStructValue(Fields(map[string]*structpb.Value{
		"id":      structpb.NewNumberValue(float64(ss.ID)),
		"user_id": structpb.NewStringValue(ss.UserID),
		"token":   structpb.NewStringValue(ss.Token),
	}))
}

// Sessions decodes a list of session objects.
func Sessions(s *structpb.Struct, name string) []Session {
	values := s.GetFields()[name].GetListValue().GetValues()
	out := make([]Session, 0, len(values))
	for _, v := range values {
		item := v.GetStructValue()
		out = append(out, Session{ID: Int(item, "id"), UserID: String(item, "user_id"), Token: String(item, "token")})
	}
	return out
}

// List encodes already-built values.
func List(values []*structpb.Value) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}
