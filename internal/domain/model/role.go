package model

type Role string

// 管理APIはADMINのみ
const RoleAdmin Role = "ADMIN"
