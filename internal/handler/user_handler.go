package handler

import (
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/damoang/eventhub-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// UserHandler serves member accounts and groups to staff
type UserHandler struct {
	users  *service.UserService
	groups *service.GroupService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *service.UserService, groups *service.GroupService) *UserHandler {
	return &UserHandler{users: users, groups: groups}
}

// ListUsers godoc
// @Summary      List or search members
// @Tags         users
// @Produce      json
// @Param        q       query     string  false  "name or email fragment"
// @Param        offset  query     int     false  "offset"
// @Param        limit   query     int     false  "page size"
// @Success      200     {object}  common.Response{data=[]domain.User}
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	offset, limit := ginutil.OffsetLimit(c, defaultPageSize, maxPageSize)
	users, total, err := h.users.Search(c.Request.Context(), c.Query("q"), offset, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.SuccessWithMeta(c, users, common.NewMeta(offset, limit, len(users), total))
}

// GetUser handles GET /admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, user)
}

// UpdateUser handles PATCH /admin/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, user)
}

// DeleteUser handles DELETE /admin/users/:id (soft delete)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// 그룹

// ListGroups handles GET /admin/groups
func (h *UserHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, groups)
}

// GetGroup handles GET /admin/groups/:id
func (h *UserHandler) GetGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	group, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, group)
}

// CreateGroup handles POST /admin/groups
func (h *UserHandler) CreateGroup(c *gin.Context) {
	var req domain.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	group, err := h.groups.Create(c.Request.Context(), &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, group)
}

// UpdateGroup handles PUT /admin/groups/:id
func (h *UserHandler) UpdateGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	group, err := h.groups.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, group)
}

// DeleteGroup handles DELETE /admin/groups/:id
func (h *UserHandler) DeleteGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}

// GroupMembers handles GET /admin/groups/:id/members
func (h *UserHandler) GroupMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	users, err := h.groups.Members(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, users)
}

// AddGroupMembers handles POST /admin/groups/:id/members
func (h *UserHandler) AddGroupMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.GroupMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	users, err := h.groups.AddMembers(c.Request.Context(), id, req.UserIDs)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, users)
}

// RemoveGroupMember handles DELETE /admin/groups/:id/members/:user_id
func (h *UserHandler) RemoveGroupMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.groups.RemoveMember(c.Request.Context(), id, userID); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}
