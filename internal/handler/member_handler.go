// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"succession-go/internal/hierarchy"
	"succession-go/internal/middleware"
	"succession-go/internal/model"
	"succession-go/internal/service"
	"succession-go/pkg/log"
	"succession-go/pkg/token"
)

// MemberHandler 负责处理所有与成员层级相关的 API 请求。
type MemberHandler struct {
	hierarchyService service.HierarchyService
}

// NewMemberHandler 创建一个新的 MemberHandler 实例。
func NewMemberHandler(hierarchyService service.HierarchyService) *MemberHandler {
	return &MemberHandler{hierarchyService: hierarchyService}
}

// AddMemberRequest 定义了添加成员 API 的请求体结构。字段不做校验，记录原样追加。
type AddMemberRequest struct {
	ID       int64  `json:"id"`
	ParentID int64  `json:"bossId"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	// Active 缺省为 true
	Active *bool `json:"active"`
}

// BigBossResponse 是 big-boss 查询的响应数据。
type BigBossResponse struct {
	MemberID int64 `json:"memberId"`
	BigBoss  bool  `json:"bigBoss"`
}

// ListMembers 返回当前集合中的全部成员。
func (h *MemberHandler) ListMembers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": h.hierarchyService.ListMembers()})
}

// GetMemberTree 以树形结构返回整个组织。
func (h *MemberHandler) GetMemberTree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": h.hierarchyService.GetMemberTree()})
}

// GetMember 返回单个成员。
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := memberIDParam(c)
	if !ok {
		return
	}
	member, err := h.hierarchyService.GetMember(id)
	if err != nil {
		respondError(c, "GetMember", err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": member})
}

// GetSubordinates 返回成员的下级。direct=true 只返回直属下级；includeInactive=true 包含已移除成员。
func (h *MemberHandler) GetSubordinates(c *gin.Context) {
	id, ok := memberIDParam(c)
	if !ok {
		return
	}
	direct, err := strconv.ParseBool(c.DefaultQuery("direct", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "direct 参数必须是布尔值", "data": nil})
		return
	}
	includeInactive, err := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "includeInactive 参数必须是布尔值", "data": nil})
		return
	}

	subs, err := h.hierarchyService.GetSubordinates(id, direct, includeInactive)
	if err != nil {
		respondError(c, "GetSubordinates", err, []model.Member{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": subs})
}

// IsBigBoss 判断成员的活跃下级数是否超过阈值。
func (h *MemberHandler) IsBigBoss(c *gin.Context) {
	id, ok := memberIDParam(c)
	if !ok {
		return
	}
	big, err := h.hierarchyService.IsBigBoss(id)
	if err != nil {
		respondError(c, "IsBigBoss", err, BigBossResponse{MemberID: id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": BigBossResponse{MemberID: id, BigBoss: big}})
}

// CompareRank 比较两个成员的活跃下级数。
func (h *MemberHandler) CompareRank(c *gin.Context) {
	id1, err1 := strconv.ParseInt(c.Query("id1"), 10, 64)
	id2, err2 := strconv.ParseInt(c.Query("id2"), 10, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "id1 和 id2 必须是整数", "data": nil})
		return
	}
	rank, err := h.hierarchyService.CompareRank(id1, id2)
	if err != nil {
		respondError(c, "CompareRank", err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": rank})
}

// AddMember 追加一个成员。
func (h *MemberHandler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("AddMember: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}
	member := model.Member{
		ID:                req.ID,
		ParentID:          req.ParentID,
		Name:              req.Name,
		Age:               req.Age,
		Active:            req.Active == nil || *req.Active,
		SupersededTeamIDs: []int64{},
	}
	h.hierarchyService.AddMember(c.Request.Context(), member)
	log.Infof("%s added member %d", actor(c), member.ID)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": member})
}

// LoadRoster 用请求体中的名册替换整个集合。Content-Type 含 yaml 时按 YAML 解析，否则按 JSON。
func (h *MemberHandler) LoadRoster(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无法读取请求体", "data": nil})
		return
	}
	format := hierarchy.FormatJSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = hierarchy.FormatYAML
	}

	n, err := h.hierarchyService.LoadRoster(c.Request.Context(), data, format)
	if err != nil {
		log.Warnf("LoadRoster: invalid roster payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error(), "data": nil})
		return
	}
	log.Infof("%s loaded a roster of %d members", actor(c), n)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"count": n}})
}

// ReloadRoster 从配置的名册来源重新导入。
func (h *MemberHandler) ReloadRoster(c *gin.Context) {
	n, err := h.hierarchyService.Reload(c.Request.Context())
	if err != nil {
		respondError(c, "ReloadRoster", err, nil)
		return
	}
	log.Infof("%s reloaded the roster, %d members", actor(c), n)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"count": n}})
}

// RemoveMember 移除一个成员（入狱）。
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	id, ok := memberIDParam(c)
	if !ok {
		return
	}
	out, err := h.hierarchyService.RemoveMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, "RemoveMember", err, nil)
		return
	}
	log.Infof("%s removed member %d, successor %d", actor(c), id, out.SuccessorID)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": out})
}

// RestoreMember 恢复一个成员（出狱）。
func (h *MemberHandler) RestoreMember(c *gin.Context) {
	id, ok := memberIDParam(c)
	if !ok {
		return
	}
	out, err := h.hierarchyService.RestoreMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, "RestoreMember", err, nil)
		return
	}
	log.Infof("%s restored member %d", actor(c), id)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": out})
}

func memberIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的成员 ID", "data": nil})
		return 0, false
	}
	return id, true
}

// respondError 把业务错误映射为 HTTP 状态码。空集合不是错误：返回 200、空数据和提示信息。
func respondError(c *gin.Context, op string, err error, empty interface{}) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, hierarchy.ErrNoCollectionLoaded):
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": err.Error(), "data": empty})
		return
	case errors.Is(err, hierarchy.ErrMemberNotFound):
		status = http.StatusNotFound
	case errors.Is(err, hierarchy.ErrInvalidStateTransition),
		errors.Is(err, hierarchy.ErrNoReplacementAvailable),
		errors.Is(err, service.ErrNoRosterSource):
		status = http.StatusConflict
	default:
		log.Error(op+": unexpected error", err)
	}
	c.JSON(status, gin.H{"code": status, "message": err.Error(), "data": nil})
}

func actor(c *gin.Context) string {
	if v, ok := c.Get(middleware.ClaimsKey); ok {
		if claims, ok := v.(*token.CustomClaims); ok {
			return "admin '" + claims.Subject + "'"
		}
	}
	return "anonymous caller"
}
