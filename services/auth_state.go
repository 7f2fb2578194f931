package services

import "github.com/dmrramaral/sushi-app/models"

type authActionKind int

const (
	authLoginStart authActionKind = iota
	authLoginSuccess
	authLoginFailure
	authRegisterStart
	authRegisterSuccess
	authRegisterFailure
	authLogout
	authSetLoading
	authSetUser
	authClearError
)

type authAction struct {
	kind    authActionKind
	user    *models.User
	err     string
	loading bool
}

func initialSessionState() models.SessionState {
	return models.SessionState{Loading: true}
}

// reduceAuth is the only way a SessionState changes.
func reduceAuth(s models.SessionState, a authAction) models.SessionState {
	switch a.kind {
	case authLoginStart, authRegisterStart:
		s.Loading = true
		s.Error = ""
	case authLoginSuccess:
		s = models.SessionState{User: a.user, IsAuthenticated: true}
	case authLoginFailure:
		s = models.SessionState{Error: a.err}
	case authRegisterSuccess:
		s.Loading = false
		s.Error = ""
	case authRegisterFailure:
		// a failed sign-up leaves whoever is logged in untouched
		s.Loading = false
		s.Error = a.err
	case authLogout:
		s = models.SessionState{}
	case authSetLoading:
		s.Loading = a.loading
	case authSetUser:
		s.User = a.user
		s.IsAuthenticated = a.user != nil
		s.Loading = false
	case authClearError:
		s.Error = ""
	}
	return s
}
