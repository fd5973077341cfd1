package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RefreshTokenExpiredMessage is the status message the server uses when an
// access token has expired and the client should refresh it.
const RefreshTokenExpiredMessage = "token expired"
