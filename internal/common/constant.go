package common

// DateLayout is the calendar date format used for job posting dates.
const DateLayout = "2006-01-02"

// AuthorizationHeaderName carries the bearer token on API requests.
const AuthorizationHeaderName = "Authorization"
