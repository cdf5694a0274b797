package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel errors for token verification failures
    "time"   // expiry calculations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// GuestTokenTTL is how long a guest access token stays valid.  Guests get
// exactly one day to revisit their order before having to contact staff.
const GuestTokenTTL = 24 * time.Hour

// ErrInvalidGuestToken is returned when a guest token fails signature or
// expiry verification, or carries no usable identity claim.
var ErrInvalidGuestToken = errors.New("invalid guest token")

// GuestClaims is the identity carried by a verified guest access token.
// Exactly one of Email or UserID is set: tokens minted at checkout bind
// an email, tokens minted for member flows bind a user id.
type GuestClaims struct {
    Email  string // email claim, empty when the token carries an id
    UserID uint64 // id claim, zero when the token carries an email
}

// NewGuestToken builds and signs an HS256 token binding an email to a
// bearer for GuestTokenTTL.  The token is not persisted anywhere; it is
// verified per-request against the shared secret, so there is no
// server-side revocation.
func NewGuestToken(secret, email string) (string, error) {
    now := time.Now().UTC()
    claims := jwt.MapClaims{
        "email": email,
        "exp":   now.Add(GuestTokenTTL).Unix(),
        "iat":   now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// ParseGuestToken verifies a guest access token and extracts its claims.
// Expired or tampered tokens return ErrInvalidGuestToken; the jwt
// library enforces the exp claim during Parse.
func ParseGuestToken(secret, raw string) (GuestClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidGuestToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return GuestClaims{}, ErrInvalidGuestToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return GuestClaims{}, ErrInvalidGuestToken
    }
    var out GuestClaims
    if v, ok := claims["email"].(string); ok && v != "" {
        out.Email = v
    }
    if v, ok := claims["id"].(float64); ok && v > 0 {
        out.UserID = uint64(v)
    }
    if out.Email == "" && out.UserID == 0 {
        return GuestClaims{}, ErrInvalidGuestToken
    }
    return out, nil
}
