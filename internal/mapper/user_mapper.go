package mapper

import (
	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                    u.Id,
		Name:                  u.Name,
		Email:                 u.Email,
		Role:                  entity.UserRole(u.Role),
		CurrentSubscriptionId: u.CurrentSubscriptionId,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                    u.Id,
		Name:                  u.Name,
		Email:                 u.Email,
		Role:                  string(u.Role),
		CurrentSubscriptionId: u.CurrentSubscriptionId,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}
