package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/middleware"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
	"github.com/Iftekhar-007/real-estate-server/utils"
)

type UserController struct {
	users      store.UserStore
	properties store.PropertyStore
	tokens     *utils.TokenManager
}

func NewUserController(users store.UserStore, properties store.PropertyStore, tokens *utils.TokenManager) *UserController {
	return &UserController{users: users, properties: properties, tokens: tokens}
}

func (uc *UserController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := uc.users.FindByEmail(c.Request().Context(), req.Email); err == nil {
		return apperr.Conflict("user with this email already exists")
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Image:    req.Image,
		Role:     models.RoleUser,
	}
	if _, err := uc.users.Insert(c.Request().Context(), &user); err != nil {
		return err
	}

	token, err := uc.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return err
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.LoginResponse{Token: token, User: user})
}

func (uc *UserController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := uc.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Auth("invalid email or password")
		}
		return err
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		return apperr.Auth("invalid email or password")
	}

	token, err := uc.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return err
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

func (uc *UserController) GetAllUsers(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("admins only")
	}

	users, err := uc.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (uc *UserController) GetUserByEmail(c echo.Context) error {
	user, err := uc.users.FindByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

// GetRole reports the caller's own role, resolved from the verified token.
func (uc *UserController) GetRole(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	return c.JSON(http.StatusOK, map[string]models.Role{"role": ident.Role})
}

func (uc *UserController) GetAgents(c echo.Context) error {
	agents, err := uc.users.ListByRole(c.Request().Context(), models.RoleAgent)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agents)
}

func (uc *UserController) MakeAdmin(c echo.Context) error {
	return uc.promote(c, models.RoleAdmin)
}

func (uc *UserController) MakeAgent(c echo.Context) error {
	return uc.promote(c, models.RoleAgent)
}

func (uc *UserController) promote(c echo.Context, role models.Role) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("admins only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid user id")
	}
	if err := uc.users.SetRole(c.Request().Context(), id, role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user is now " + string(role)})
}

// MarkFraud revokes an agent's standing and removes every property they
// listed. The two steps are explicit so the cascade is observable: the
// response reports how many listings were deleted.
func (uc *UserController) MarkFraud(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("admins only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	_, removed, err := store.MarkAgentFraud(c.Request().Context(), uc.users, uc.properties, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":           "agent marked as fraud",
		"propertiesRemoved": removed,
	})
}

func (uc *UserController) DeleteUser(c echo.Context) error {
	ident := middleware.CurrentIdentity(c)
	if !models.RoleGate(ident).CanModerate() {
		return apperr.Forbidden("admins only")
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid user id")
	}
	if err := uc.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
