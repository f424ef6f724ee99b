package user

import (
	"github.com/saransh1220/coursehub/internal/modules/user/application"
	user_http "github.com/saransh1220/coursehub/internal/modules/user/interfaces/http"
)

// Module serves profiles on top of the account store owned by auth.
type Module struct {
	profiles *application.UserService
	handler  *user_http.UserHandler
}

func NewModule(store application.ProfileRepository, files user_http.FileService) *Module {
	profiles := application.NewUserService(store)
	return &Module{
		profiles: profiles,
		handler:  user_http.NewUserHandler(profiles, files),
	}
}

func (m *Module) HTTPHandler() *user_http.UserHandler { return m.handler }

func (m *Module) Service() *application.UserService { return m.profiles }
