package models

// All is the registry of entity schemas handed to the database on
// synchronization. The order is fixed.
var All = []interface{}{
	&APIKey{},
	&Identity{},
	&Permission{},
	&Replicant{},
	&Role{},
	&Session{},
	&User{},
}

// Tables lists the table backing each entry of All, in the same order.
var Tables = []string{
	APIKeyTable,
	IdentityTable,
	PermissionTable,
	ReplicantTable,
	RoleTable,
	SessionTable,
	UserTable,
}
