package routes

import (
	"github.com/damoang/eventhub-backend/internal/handler"
	"github.com/damoang/eventhub-backend/internal/middleware"
	"github.com/damoang/eventhub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth        *handler.AuthHandler
	DM          *handler.DMHandler
	DMMeta      *handler.DMMetaHandler
	Users       *handler.UserHandler
	Events      *handler.EventHandler
	Notices     *handler.NoticeHandler
	Archives    *handler.ArchiveHandler
	MemberEvent *handler.MemberEventHandler
	Checkout    *handler.CheckoutHandler
	WS          *handler.WSHandler
}

// Setup configures all API routes. redisClient may be nil (rate limiting off).
func Setup(router *gin.Engine, h *Handlers, jwtManager *jwt.Manager, redisClient *redis.Client) {
	auth := middleware.JWTAuth(jwtManager)
	loginLimit := middleware.RateLimitPerUser(redisClient, 10)

	// Admin API (staff dashboard)
	admin := router.Group("/api/admin")
	admin.POST("/auth/login", loginLimit, h.Auth.AdminLogin)
	admin.POST("/auth/refresh", h.Auth.Refresh)

	staff := admin.Group("", auth, middleware.RequireAdmin())
	staff.GET("/ws", h.WS.Connect)

	// DM 인박스
	dm := staff.Group("/dm")
	{
		dm.GET("/threads", h.DM.ListThreads)
		dm.GET("/threads/search", h.DM.SearchThreads)
		dm.GET("/threads/:id", h.DM.GetThread)
		dm.PATCH("/threads/:id/read", h.DM.UpdateReadStatus)
		dm.GET("/threads/:id/messages", h.DM.ListMessages)
		dm.POST("/threads/:id/messages", h.DM.SendText)
		dm.POST("/threads/:id/images", middleware.RateLimitPerUser(redisClient, 30), h.DM.SendImages)
		dm.GET("/unread-count", h.DM.UnreadCount)

		dm.PUT("/threads/:id/label", h.DMMeta.SetThreadLabel)
		dm.GET("/threads/:id/tags", h.DMMeta.ThreadTags)
		dm.PUT("/threads/:id/tags/:tag_id", h.DMMeta.AttachTag)
		dm.DELETE("/threads/:id/tags/:tag_id", h.DMMeta.DetachTag)
		dm.GET("/threads/:id/memos", h.DMMeta.ListMemos)
		dm.POST("/threads/:id/memos", h.DMMeta.CreateMemo)
		dm.PUT("/threads/:id/memos/:memo_id", h.DMMeta.UpdateMemo)
		dm.DELETE("/threads/:id/memos/:memo_id", h.DMMeta.DeleteMemo)

		dm.GET("/labels", h.DMMeta.ListLabels)
		dm.POST("/labels", h.DMMeta.CreateLabel)
		dm.PUT("/labels/:id", h.DMMeta.UpdateLabel)
		dm.DELETE("/labels/:id", h.DMMeta.DeleteLabel)
		dm.GET("/tags", h.DMMeta.ListTags)
		dm.POST("/tags", h.DMMeta.CreateTag)
		dm.DELETE("/tags/:id", h.DMMeta.DeleteTag)
	}

	// 회원/그룹
	staff.GET("/users", h.Users.ListUsers)
	staff.GET("/users/:id", h.Users.GetUser)
	staff.PATCH("/users/:id", h.Users.UpdateUser)
	staff.DELETE("/users/:id", h.Users.DeleteUser)

	staff.GET("/groups", h.Users.ListGroups)
	staff.POST("/groups", h.Users.CreateGroup)
	staff.GET("/groups/:id", h.Users.GetGroup)
	staff.PUT("/groups/:id", h.Users.UpdateGroup)
	staff.DELETE("/groups/:id", h.Users.DeleteGroup)
	staff.GET("/groups/:id/members", h.Users.GroupMembers)
	staff.POST("/groups/:id/members", h.Users.AddGroupMembers)
	staff.DELETE("/groups/:id/members/:user_id", h.Users.RemoveGroupMember)

	// 이벤트
	staff.GET("/events", h.Events.ListEvents)
	staff.POST("/events", h.Events.CreateEvent)
	staff.GET("/events/:id", h.Events.GetEvent)
	staff.PUT("/events/:id", h.Events.UpdateEvent)
	staff.DELETE("/events/:id", h.Events.DeleteEvent)
	staff.PUT("/events/:id/visible-groups", h.Events.SetVisibleGroups)
	staff.GET("/events/:id/attendees", h.Events.Attendees)

	// 공지
	staff.GET("/notices", h.Notices.ListNotices)
	staff.POST("/notices", h.Notices.CreateNotice)
	staff.POST("/notices/reindex", h.Notices.Reindex)
	staff.GET("/notices/:id", h.Notices.GetNotice)
	staff.PUT("/notices/:id", h.Notices.UpdateNotice)
	staff.DELETE("/notices/:id", h.Notices.DeleteNotice)
	staff.POST("/notices/:id/files", h.Notices.AttachFiles)
	staff.DELETE("/notices/:id/files/:file_id", h.Notices.DeleteFile)
	staff.GET("/notice-categories", h.Notices.ListCategories)
	staff.POST("/notice-categories", h.Notices.CreateCategory)
	staff.PUT("/notice-categories/:id", h.Notices.UpdateCategory)
	staff.DELETE("/notice-categories/:id", h.Notices.DeleteCategory)

	// 아카이브/FAQ
	staff.GET("/archives", h.Archives.ListArchives)
	staff.POST("/archives", h.Archives.CreateArchive)
	staff.POST("/archives/video-ticket", h.Archives.VideoTicket)
	staff.GET("/archives/:id", h.Archives.GetArchive)
	staff.PUT("/archives/:id", h.Archives.UpdateArchive)
	staff.DELETE("/archives/:id", h.Archives.DeleteArchive)
	staff.POST("/archives/:id/image", h.Archives.UploadImage)
	staff.GET("/faqs", h.Archives.ListFAQs)
	staff.POST("/faqs", h.Archives.CreateFAQ)
	staff.PUT("/faqs/order", h.Archives.ReorderFAQs)
	staff.PUT("/faqs/:id", h.Archives.UpdateFAQ)
	staff.DELETE("/faqs/:id", h.Archives.DeleteFAQ)

	// Member API
	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", loginLimit, h.Auth.MemberLogin)
	v1.POST("/auth/refresh", h.Auth.Refresh)
	v1.POST("/checkout/webhook", h.Checkout.Webhook)

	member := v1.Group("", auth, middleware.RequireMember())
	member.GET("/events/calendar", h.MemberEvent.Calendar)
	member.GET("/events/:id", h.MemberEvent.GetEvent)
	member.GET("/events/:id/availability", h.MemberEvent.Availability)
	member.POST("/events/:id/registrations", h.MemberEvent.Register)
	member.DELETE("/events/:id/registrations/:offering", h.MemberEvent.Cancel)
	member.GET("/me/registrations", h.MemberEvent.MyRegistrations)

	member.GET("/messages", h.DM.MyMessages)
	member.POST("/messages", h.DM.PostMessage)

	member.GET("/notices", h.Notices.PublishedNotices)
	member.GET("/notices/search", h.Notices.SearchNotices)
	member.GET("/notices/:id", h.Notices.PublishedNotice)
	member.GET("/notice-categories", h.Notices.ListCategories)
	member.GET("/archives", h.Archives.PublishedArchives)
	member.GET("/faqs", h.Archives.ListFAQs)
}
