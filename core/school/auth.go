package school

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
)

// Login types
const (
	LoginTeacher = "teacher"
	LoginStudent = "student"
	LoginParent  = "parent"
)

// ErrUnauthorized is returned when credentials do not match.
var ErrUnauthorized = errors.New("invalid credentials")

type (
	Credentials struct {
		Type       string      `json:"type" validate:"required,oneof=teacher student parent"`
		SchoolCode string      `json:"schoolCode"`
		StaffID    interface{} `json:"staffId"`
		StudentID  interface{} `json:"studentId"`
		ParentID   interface{} `json:"parentId"`
		AccessCode string      `json:"accessCode"`
	}

	AuthResult struct {
		User  document.Record   `json:"user"`
		Staff []document.Record `json:"staff,omitempty"`
	}
)

// CreatorUser is the identity returned for the configured superuser.
func CreatorUser() document.Record {
	return document.Record{"id": "creator", "name": "Creator", "role": "Creator"}
}

// Authenticate checks credentials against the document. A successful teacher login stamps `lastSeen`.
// Nothing is written on failure.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if err := svc.validate.Struct(creds); err != nil {
		return nil, err
	}

	var (
		res *AuthResult
		err error
	)
	switch creds.Type {
	case LoginTeacher:
		if svc.isCreator(creds) {
			res, err = svc.authenticateCreator(ctx)
		} else {
			res, err = svc.authenticateTeacher(ctx, creds)
		}
	case LoginStudent:
		res, err = svc.authenticateWithCode(ctx, document.Students, document.AccessCodes, "studentId", creds.StudentID, creds.AccessCode)
	case LoginParent:
		res, err = svc.authenticateWithCode(ctx, document.Parents, document.ParentAccessCodes, "parentId", creds.ParentID, creds.AccessCode)
	default:
		err = ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	svc.logger.Info(creds.Type+" logged in", IdentityOf(res.User, creds.Type))
	return res, nil
}

// IdentityOf describes an authenticated user record for logging.
// The record's role wins over the login type.
func IdentityOf(user document.Record, loginType string) core.Identity {
	role := user.StringField("role")
	if role == "" {
		role = loginType
	}
	return core.Identity{ID: user.ID(), Name: user.StringField("name"), Role: role}
}

func (svc *Service) authenticateCreator(ctx context.Context) (*AuthResult, error) {
	doc, err := svc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: CreatorUser(), Staff: doc.Staff}, nil
}

func (svc *Service) isCreator(creds Credentials) bool {
	code, secret := svc.creator.SchoolCode, svc.creator.Secret
	if code == "" || secret == "" {
		return false
	}
	if !strings.EqualFold(core.CleanString(creds.SchoolCode), core.CleanString(code)) {
		return false
	}
	given := document.CanonicalID(creds.StaffID)
	if given == "" {
		return false
	}
	if strings.HasPrefix(secret, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(given)) == 1
}

func (svc *Service) authenticateTeacher(ctx context.Context, creds Credentials) (*AuthResult, error) {
	code := core.CleanString(creds.SchoolCode, true)
	if code == "" || document.CanonicalID(creds.StaffID) == "" {
		return nil, ErrUnauthorized
	}

	var user document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		var school document.Record
		for _, s := range doc.Schools {
			if core.CleanString(s.StringField("code"), true) == code {
				school = s
				break
			}
		}
		if school == nil {
			return ErrUnauthorized
		}
		_, staff := doc.FindByID(document.Staff, creds.StaffID)
		if staff == nil {
			return ErrUnauthorized
		}
		if schoolID, ok := staff["schoolId"]; ok && schoolID != nil && !document.LooseEqual(schoolID, school["id"]) {
			return ErrUnauthorized
		}
		staff["lastSeen"] = core.Timestamp(core.Now())
		user = staff.Clone()
		return nil
	}, document.Staff)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user}, nil
}

func (svc *Service) authenticateWithCode(
	ctx context.Context,
	users, codes document.Collection,
	codeKey string,
	id interface{},
	accessCode string,
) (*AuthResult, error) {
	if document.CanonicalID(id) == "" || accessCode == "" {
		return nil, ErrUnauthorized
	}
	doc, err := svc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	_, user := doc.FindByID(users, id)
	if user == nil {
		return nil, ErrUnauthorized
	}
	for _, c := range *doc.Records(codes) {
		if c.Matches(codeKey, id) && subtle.ConstantTimeCompare([]byte(document.CanonicalID(c["code"])), []byte(accessCode)) == 1 {
			return &AuthResult{User: user}, nil
		}
	}
	return nil, ErrUnauthorized
}
