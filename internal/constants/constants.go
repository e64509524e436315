package constants

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type MemberRole string

const (
	RoleViewer MemberRole = "viewer"
	RoleMember MemberRole = "member"
	RoleAdmin  MemberRole = "admin"
)

type ActivityType string

const (
	ActivityTaskCreated    ActivityType = "task_created"
	ActivityTaskUpdated    ActivityType = "task_updated"
	ActivityTaskCompleted  ActivityType = "task_completed"
	ActivityTaskAssigned   ActivityType = "task_assigned"
	ActivityCommentAdded   ActivityType = "comment_added"
	ActivityProjectCreated ActivityType = "project_created"
	ActivityProjectUpdated ActivityType = "project_updated"
	ActivityMemberJoined   ActivityType = "member_joined"
	ActivityMemberLeft     ActivityType = "member_left"
	ActivityFileUploaded   ActivityType = "file_uploaded"
)

type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationTaskDue       NotificationType = "task_due"
	NotificationMention       NotificationType = "mention"
	NotificationProjectInvite NotificationType = "project_invite"
	NotificationDeadline      NotificationType = "deadline_approaching"
	NotificationTaskCompleted NotificationType = "task_completed"
	NotificationCommentReply  NotificationType = "comment_reply"
)
