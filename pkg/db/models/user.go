package models

// User is a customer account. Active flips to false only through the check-inactive flow.
type User struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Age       int64  `gorm:"column:age;not null"`
	Active    bool   `gorm:"column:active;not null;default:true"`
}

// UserColumns is the select list matching User.
const UserColumns = "id, first_name, last_name, age, active"
