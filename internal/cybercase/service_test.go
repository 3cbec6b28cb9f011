package cybercase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cibercrimen/casetrack/internal/cybercase"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func validParams() cybercase.CreateParams {
	return cybercase.CreateParams{
		CaseDate:            date(2025, 3, 14),
		ExpedientNumber:     "EXP-2025-0001",
		CrimeType:           cybercase.CrimePhishing,
		Status:              cybercase.StatusPending,
		StolenAmount:        decimal.RequireFromString("1500.50"),
		SenderAccountData:   "BBVA 0123456789",
		ReceiverAccountData: "Santander 9876543210",
		Victim:              "María López",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name       string
		params     cybercase.CreateParams
		createdBy  string
		setupMock  func(m *cybercase.MockRepository)
		wantErr    bool
		wantField  string
		wantNotNil bool
	}

	tests := []testCase{
		{
			name:      "Success",
			params:    validParams(),
			createdBy: "analyst-7",
			setupMock: func(m *cybercase.MockRepository) {
				m.EXPECT().
					CreateCase(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *cybercase.Case) error {
						c.ID = uuid.New()
						c.CreatedAt = time.Now()
						c.UpdatedAt = c.CreatedAt
						return nil
					})
			},
			wantNotNil: true,
		},
		{
			name: "MissingVictim",
			params: func() cybercase.CreateParams {
				p := validParams()
				p.Victim = ""
				return p
			}(),
			createdBy: "analyst-7",
			wantErr:   true,
			wantField: "victim",
		},
		{
			name: "MissingExpedientNumber",
			params: func() cybercase.CreateParams {
				p := validParams()
				p.ExpedientNumber = ""
				return p
			}(),
			createdBy: "analyst-7",
			wantErr:   true,
			wantField: "expedient_number",
		},
		{
			name: "NegativeAmount",
			params: func() cybercase.CreateParams {
				p := validParams()
				p.StolenAmount = decimal.RequireFromString("-0.01")
				return p
			}(),
			createdBy: "analyst-7",
			wantErr:   true,
			wantField: "stolen_amount",
		},
		{
			name: "TooManyDecimalPlaces",
			params: func() cybercase.CreateParams {
				p := validParams()
				p.StolenAmount = decimal.RequireFromString("10.999")
				return p
			}(),
			createdBy: "analyst-7",
			wantErr:   true,
			wantField: "stolen_amount",
		},
		{
			name:      "EmptyCallerIdentity",
			params:    validParams(),
			createdBy: "",
			wantErr:   true,
			wantField: "created_by",
		},
		{
			name:      "DuplicateExpedient",
			params:    validParams(),
			createdBy: "analyst-7",
			setupMock: func(m *cybercase.MockRepository) {
				m.EXPECT().
					CreateCase(gomock.Any(), gomock.Any()).
					Return(cybercase.ErrDuplicateExpedient)
			},
			wantErr:   true,
			wantField: "expedient_number",
		},
		{
			name:      "RepoError",
			params:    validParams(),
			createdBy: "analyst-7",
			setupMock: func(m *cybercase.MockRepository) {
				m.EXPECT().
					CreateCase(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := cybercase.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := cybercase.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params, tt.createdBy)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantField != "" {
					var verr *cybercase.ValidationError
					require.ErrorAs(t, err, &verr)
					assert.Contains(t, verr.Fields, tt.wantField)
				}

				return
			}

			require.NoError(t, err)

			if tt.wantNotNil {
				require.NotNil(t, got)
				assert.NotEmpty(t, got.ID)
				assert.Equal(t, "analyst-7", got.CreatedBy)
			}
		})
	}
}

func TestService_Create_NormalizesCaseDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateCase(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *cybercase.Case) error {
			assert.Equal(t, date(2025, 3, 14), c.CaseDate)
			return nil
		})

	svc := cybercase.NewService(repo)

	params := validParams()
	params.CaseDate = time.Date(2025, 3, 14, 17, 45, 12, 0, time.FixedZone("X", 3600))

	_, err := svc.Create(context.Background(), params, "analyst-7")
	require.NoError(t, err)
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	stored := func() *cybercase.Case {
		return &cybercase.Case{
			ID:                  id,
			CaseDate:            date(2025, 3, 14),
			ExpedientNumber:     "EXP-2025-0001",
			CrimeType:           cybercase.CrimePhishing,
			Status:              cybercase.StatusPending,
			StolenAmount:        decimal.RequireFromString("1500.50"),
			SenderAccountData:   "BBVA 0123456789",
			ReceiverAccountData: "Santander 9876543210",
			Victim:              "María López",
			CreatedBy:           "analyst-7",
			CreatedAt:           date(2025, 3, 14),
			UpdatedAt:           date(2025, 3, 14),
		}
	}

	t.Run("PartialUpdateKeepsOtherFields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cybercase.NewMockRepository(ctrl)
		repo.EXPECT().GetCase(gomock.Any(), id).Return(stored(), nil)
		repo.EXPECT().
			UpdateCase(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *cybercase.Case) error {
				assert.Equal(t, cybercase.StatusCompleted, c.Status)
				// Untouched fields survive the merge.
				assert.Equal(t, "EXP-2025-0001", c.ExpedientNumber)
				assert.Equal(t, "María López", c.Victim)
				// Creator is immutable.
				assert.Equal(t, "analyst-7", c.CreatedBy)
				c.UpdatedAt = time.Now()
				return nil
			})

		svc := cybercase.NewService(repo)

		newStatus := cybercase.StatusCompleted
		got, err := svc.Update(context.Background(), id, cybercase.UpdateParams{Status: &newStatus})
		require.NoError(t, err)
		assert.Equal(t, cybercase.StatusCompleted, got.Status)
	})

	t.Run("BlankVictimRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cybercase.NewMockRepository(ctrl)
		repo.EXPECT().GetCase(gomock.Any(), id).Return(stored(), nil)

		svc := cybercase.NewService(repo)

		blank := ""
		_, err := svc.Update(context.Background(), id, cybercase.UpdateParams{Victim: &blank})

		var verr *cybercase.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "victim")
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cybercase.NewMockRepository(ctrl)
		repo.EXPECT().GetCase(gomock.Any(), id).Return(nil, cybercase.ErrNotFound)

		svc := cybercase.NewService(repo)

		_, err := svc.Update(context.Background(), id, cybercase.UpdateParams{})
		assert.ErrorIs(t, err, cybercase.ErrNotFound)
	})

	t.Run("DuplicateExpedient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := cybercase.NewMockRepository(ctrl)
		repo.EXPECT().GetCase(gomock.Any(), id).Return(stored(), nil)
		repo.EXPECT().UpdateCase(gomock.Any(), gomock.Any()).Return(cybercase.ErrDuplicateExpedient)

		svc := cybercase.NewService(repo)

		other := "EXP-2025-0002"
		_, err := svc.Update(context.Background(), id, cybercase.UpdateParams{ExpedientNumber: &other})

		var verr *cybercase.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "expedient_number")
	})
}

func TestService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := cybercase.NewMockRepository(ctrl)
	repo.EXPECT().DeleteCase(gomock.Any(), id).Return(cybercase.ErrNotFound)

	svc := cybercase.NewService(repo)
	assert.ErrorIs(t, svc.Delete(context.Background(), id), cybercase.ErrNotFound)
}

func TestService_List_NormalizesPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	repo.EXPECT().
		ListCases(gomock.Any(), cybercase.Filter{}, cybercase.Page{Number: 1, Limit: cybercase.DefaultLimit}).
		Return(&cybercase.CaseList{Cases: []*cybercase.Case{}, Total: 0}, nil)

	svc := cybercase.NewService(repo)

	// Page 0 and limit 0 are coerced, and a whitespace search collapses
	// to no filter at all.
	got, err := svc.List(context.Background(), cybercase.Filter{Search: "   "}, cybercase.Page{Number: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Total)
	assert.Empty(t, got.Cases)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	itx := cybercase.NewMockImportTx(ctrl)
	svc := cybercase.NewService(repo)

	params := []cybercase.CreateParams{validParams()}

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindByExpedientNumbers(gomock.Any(), []string{"EXP-2025-0001"}).Return(nil, nil)
	itx.EXPECT().CreateCases(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params, "analyst-7")
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, "analyst-7", result.Imported[0].CreatedBy)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	itx := cybercase.NewMockImportTx(ctrl)
	svc := cybercase.NewService(repo)

	first := validParams()

	second := validParams()
	second.ExpedientNumber = "EXP-2025-0002"

	existing := &cybercase.Case{
		ID:              uuid.New(),
		ExpedientNumber: "EXP-2025-0001",
	}

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().
		FindByExpedientNumbers(gomock.Any(), []string{"EXP-2025-0001", "EXP-2025-0002"}).
		Return([]*cybercase.Case{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), []cybercase.CreateParams{first, second}, "analyst-7")
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	assert.Equal(t, "EXP-2025-0002", result.New[0].ExpedientNumber)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, first, result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	svc := cybercase.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), nil, "analyst-7")
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	svc := cybercase.NewService(repo)

	bad := validParams()
	bad.Victim = ""

	_, err := svc.ImportBatch(context.Background(), []cybercase.CreateParams{validParams(), bad}, "analyst-7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestService_ImportBatch_DuplicateWithinFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	svc := cybercase.NewService(repo)

	// Two rows share an expedient number that the store does not hold yet;
	// the batch must fail validation before anything is written.
	_, err := svc.ImportBatch(context.Background(),
		[]cybercase.CreateParams{validParams(), validParams()}, "analyst-7")
	require.Error(t, err)

	var verr *cybercase.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "expedient_number")
	assert.Contains(t, err.Error(), "row 2")
}

func TestService_ImportBatch_RacedExpedientIsValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := cybercase.NewMockRepository(ctrl)
	itx := cybercase.NewMockImportTx(ctrl)
	svc := cybercase.NewService(repo)

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindByExpedientNumbers(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().CreateCases(gomock.Any(), gomock.Any()).Return(cybercase.ErrDuplicateExpedient)
	itx.EXPECT().Rollback().Return(nil)

	_, err := svc.ImportBatch(context.Background(), []cybercase.CreateParams{validParams()}, "analyst-7")
	require.Error(t, err)

	var verr *cybercase.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "expedient_number")
}
