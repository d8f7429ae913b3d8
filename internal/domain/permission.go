package domain

type Permission string

const (
	PermCategoryCreate Permission = "category:create"
	PermCategoryUpdate Permission = "category:update"
	PermCategoryDelete Permission = "category:delete"

	PermFileUpload Permission = "file:upload"
	PermFileUpdate Permission = "file:update"
	PermFileDelete Permission = "file:delete"
	PermFileRead   Permission = "file:read"
	PermFileList   Permission = "file:list"
	PermFileOwn    Permission = "file:own"
)

var grants = map[Permission][]Role{
	PermCategoryCreate: {RoleAdmin},
	PermCategoryUpdate: {RoleAdmin},
	PermCategoryDelete: {RoleAdmin},

	PermFileUpload: {RoleUser, RoleAdmin, RoleAuditor},
	PermFileUpdate: {RoleUser, RoleAdmin, RoleAuditor},
	PermFileDelete: {RoleUser, RoleAdmin, RoleAuditor},
	PermFileRead:   {RoleUser, RoleAdmin, RoleAuditor},
	PermFileList:   {RoleUser, RoleAdmin, RoleAuditor},
	PermFileOwn:    {RoleUser, RoleAdmin, RoleAuditor},
}

func (r Role) Can(p Permission) bool {
	for _, allowed := range grants[p] {
		if allowed == r {
			return true
		}
	}
	return false
}
