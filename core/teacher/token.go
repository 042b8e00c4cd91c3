package teacher

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	salt    = []byte("edutrack.core.teacher.token")
	nowFunc = time.Now // mockable

	// set by NewService from app config
	secretKey                 []byte
	passwordResetTimeoutDelta = 3 * 24 * time.Hour

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// EncodeUID base64 encodes given Teacher ID for use in password reset links.
func EncodeUID(t Teacher) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(t.ID)))
}

// decodeUID base64 decodes given UID back to a Teacher ID.
func decodeUID(uid string) (int, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, errInvalidToken
	}
	id, err := strconv.Atoi(string(idBytes))
	if err != nil {
		return 0, errInvalidToken
	}
	return id, nil
}

// makeToken generates a password reset token for a given Teacher.
// The token is invalidated by use (password hash changes) or by login.
func makeToken(t Teacher) string {
	return makeTokenWithTimestamp(t, numDaysSince2001(nowFunc()))
}

// verifyToken checks that a password reset token for a given Teacher is valid.
func verifyToken(t Teacher, token string) error {
	if token == "" {
		return errInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return errInvalidToken
	}

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return errInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return errInvalidToken
	}

	// check that token has not been tampered with
	if subtle.ConstantTimeCompare([]byte(makeTokenWithTimestamp(t, ts)), []byte(token)) == 0 {
		return errInvalidToken
	}

	// check that the timestamp is within limit
	if (numDaysSince2001(time.Now()) - ts) > int(passwordResetTimeoutDelta/(24*time.Hour)) {
		return errTokenExpired
	}
	return nil
}

func makeTokenWithTimestamp(t Teacher, ts int) string {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	return fmt.Sprintf("%s-%s", tsB32, sign(hashValue(t, ts)))
}

func numDaysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func sign(val []byte) string {
	key := sha256.Sum256(append(salt, secretKey...))
	h := hmac.New(sha256.New, key[:])
	_, _ = h.Write(val)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func hashValue(t Teacher, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(strconv.Itoa(t.ID))
	val.Write(t.PasswordHash)
	if !t.LastLogin.IsZero() {
		val.WriteString(t.LastLogin.String())
	}
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
