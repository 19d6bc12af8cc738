package repository_test

import (
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
)

// The repositories must keep satisfying the service-side store interfaces
// without the repository package ever importing service.
var (
	_ service.AttemptStore       = (*repository.AttemptRepository)(nil)
	_ service.QuestionBankReader = (*repository.QuestionRepository)(nil)
)
