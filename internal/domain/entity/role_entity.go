package entity

// UserType is the platform role of a user.
type UserType string

const (
	UserTypeIndustry  UserType = "industry"
	UserTypeProfessor UserType = "professor"
	UserTypeStudent   UserType = "student"
	UserTypeAdmin     UserType = "admin"
)

var userTypeLabels = map[UserType]string{
	UserTypeIndustry:  "Industry",
	UserTypeProfessor: "Professor",
	UserTypeStudent:   "Student",
	UserTypeAdmin:     "Admin",
}

func (t UserType) Valid() bool {
	_, ok := userTypeLabels[t]
	return ok
}

// IsAcademic is true for roles that can be assigned to project teams.
func (t UserType) IsAcademic() bool {
	return t == UserTypeProfessor || t == UserTypeStudent
}

// SelfRegistrable is true for roles a visitor may pick at signup.
func (t UserType) SelfRegistrable() bool {
	return t == UserTypeIndustry || t.IsAcademic()
}

func (t UserType) Label() string {
	return userTypeLabels[t]
}
