package domain

import (
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain/validation"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/google/uuid"
)

const (
	CategoryNameMinLength        = 3
	CategoryNameMaxLength        = 255
	CategoryDescriptionMaxLength = 10_000
)

// Сообщения об ошибках сверяются клиентами дословно.
const (
	msgNameRequired        = "Name should not be empty or null"
	msgNameTooShort        = "Name should be at least 3 characters long"
	msgNameTooLong         = "Name should be less or equal 255 characters long"
	msgDescriptionRequired = "Description should not be empty or null"
	msgDescriptionTooLong  = "Description should be less or equal 10.000 characters long"
	msgIDRequired          = "Id should not be empty"
	msgCreatedAtRequired   = "CreatedAt should not be empty"
)

// Category описывает категорию каталога.
// Поля меняются только через Update, Activate и Deactivate.
type Category struct {
	id          uuid.UUID
	name        string
	description string
	isActive    bool
	createdAt   time.Time
}

// CategoryOption задаёт необязательные параметры при создании категории.
type CategoryOption func(*Category)

// WithIsActive задаёт начальный статус категории (по умолчанию активна).
func WithIsActive(isActive bool) CategoryOption {
	return func(c *Category) {
		c.isActive = isActive
	}
}

// NewCategory создаёт категорию с новым идентификатором и проверяет её поля.
func NewCategory(name, description string, opts ...CategoryOption) (*Category, error) {
	category := &Category{
		id:          uuid.New(),
		name:        name,
		description: description,
		isActive:    true,
		createdAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(category)
	}

	if err := validateCategory(category.name, category.description); err != nil {
		return nil, err
	}

	return category, nil
}

// RestoreCategory восстанавливает сохранённую категорию, повторно проверяя инварианты.
func RestoreCategory(
	id uuid.UUID,
	name string,
	description string,
	isActive bool,
	createdAt time.Time,
) (*Category, error) {
	if id == uuid.Nil {
		return nil, e.NewEntityValidationError(msgIDRequired)
	}

	if createdAt.IsZero() {
		return nil, e.NewEntityValidationError(msgCreatedAtRequired)
	}

	if err := validateCategory(name, description); err != nil {
		return nil, err
	}

	return &Category{
		id:          id,
		name:        name,
		description: description,
		isActive:    isActive,
		createdAt:   createdAt,
	}, nil
}

func (c *Category) ID() uuid.UUID {
	return c.id
}

func (c *Category) Name() string {
	return c.name
}

func (c *Category) Description() string {
	return c.description
}

func (c *Category) IsActive() bool {
	return c.isActive
}

func (c *Category) CreatedAt() time.Time {
	return c.createdAt
}

// Activate делает категорию активной.
func (c *Category) Activate() {
	c.isActive = true
}

// Deactivate делает категорию неактивной.
func (c *Category) Deactivate() {
	c.isActive = false
}

// Update меняет имя и, если передано, описание.
// При ошибке валидации категория остаётся без изменений.
func (c *Category) Update(name string, description *string) error {
	newDescription := c.description
	if description != nil {
		newDescription = *description
	}

	if err := validateCategory(name, newDescription); err != nil {
		return err
	}

	c.name = name
	c.description = newDescription

	return nil
}

// validateCategory проверяет имя, затем описание; внутри поля наличие проверяется раньше длины.
func validateCategory(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}

	return validateDescription(description)
}

func validateName(name string) error {
	if err := validation.NotNullOrEmpty(&name, "Name", validation.WithMessage(msgNameRequired)); err != nil {
		return err
	}

	if err := validation.MinLength(name, CategoryNameMinLength, "Name", validation.WithMessage(msgNameTooShort)); err != nil {
		return err
	}

	return validation.MaxLength(name, CategoryNameMaxLength, "Name", validation.WithMessage(msgNameTooLong))
}

func validateDescription(description string) error {
	if err := validation.NotNullOrEmpty(&description, "Description", validation.WithMessage(msgDescriptionRequired)); err != nil {
		return err
	}

	return validation.MaxLength(description, CategoryDescriptionMaxLength, "Description", validation.WithMessage(msgDescriptionTooLong))
}
