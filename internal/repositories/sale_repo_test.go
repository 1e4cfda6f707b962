package repositories

import (
	"context"
	"testing"
	"time"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var saleColumns = []string{
	"id", "tenant_id", "employee_name", "total_items", "total_quantity", "total_amount", "profit", "created_at",
	"product_id", "product_name", "quantity", "sell_price", "purchase_price", "line_total",
}

type SaleRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     SaleRepository
	tenantID uuid.UUID
	first    uuid.UUID
	second   uuid.UUID
	context  context.Context
}

func (suite *SaleRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewSaleRepo(mock)
	suite.tenantID = uuid.New()
	suite.first = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	suite.second = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	suite.context = context.Background()
}

func (suite *SaleRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestSaleRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SaleRepoTestSuite))
}

func (suite *SaleRepoTestSuite) newSale() *models.Sale {
	return &models.Sale{ID: uuid.New(), TenantID: suite.tenantID, CreatedAt: time.Now().UTC()}
}

func (suite *SaleRepoTestSuite) expectDecrement(productID uuid.UUID, qty int) *pgxmock.ExpectedQuery {
	return suite.mock.ExpectQuery(`UPDATE products SET quantity = quantity - \$1`).
		WithArgs(qty, suite.tenantID, productID)
}

func (suite *SaleRepoTestSuite) TestCreate_DecrementsInIDOrderAndKeepsLineOrder() {
	sale := suite.newSale()
	lines := []models.SaleItemRequest{
		{ProductID: suite.second, Quantity: 2},
		{ProductID: suite.first, Quantity: 1},
	}

	suite.mock.ExpectBegin()
	suite.expectDecrement(suite.first, 1).
		WillReturnRows(pgxmock.NewRows([]string{"name", "sell_price", "purchase_price"}).AddRow("Rice 5kg", 10.0, 6.0))
	suite.expectDecrement(suite.second, 2).
		WillReturnRows(pgxmock.NewRows([]string{"name", "sell_price", "purchase_price"}).AddRow("Tea 250g", 2.5, 1.0))
	suite.mock.ExpectExec(`INSERT INTO sales`).
		WithArgs(sale.ID, suite.tenantID, pgxmock.AnyArg(), 2, 3, 15.0, 7.0, sale.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(sale.ID, 1, suite.second, "Tea 250g", 2, 2.5, 1.0, 5.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(sale.ID, 2, suite.first, "Rice 5kg", 1, 10.0, 6.0, 10.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, sale, lines)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), sale.Items, 2)
	assert.Equal(suite.T(), "Tea 250g", sale.Items[0].ProductName)
	assert.Equal(suite.T(), 15.0, sale.TotalAmount)
	assert.Equal(suite.T(), 7.0, sale.Profit)
}

func (suite *SaleRepoTestSuite) TestCreate_InsufficientQuantityRollsBack() {
	sale := suite.newSale()
	lines := []models.SaleItemRequest{
		{ProductID: suite.first, Quantity: 1},
		{ProductID: suite.second, Quantity: 50},
	}

	suite.mock.ExpectBegin()
	suite.expectDecrement(suite.first, 1).
		WillReturnRows(pgxmock.NewRows([]string{"name", "sell_price", "purchase_price"}).AddRow("Rice 5kg", 10.0, 6.0))
	suite.expectDecrement(suite.second, 50).
		WillReturnRows(pgxmock.NewRows([]string{"name", "sell_price", "purchase_price"}))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.tenantID, suite.second).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, sale, lines)

	assert.ErrorIs(suite.T(), err, common.ErrInsufficientQuantity)
	var domainErr *common.Error
	require.ErrorAs(suite.T(), err, &domainErr)
	assert.Equal(suite.T(), suite.second.String(), domainErr.Details["product_id"])
}

func (suite *SaleRepoTestSuite) TestCreate_UnknownProduct() {
	sale := suite.newSale()

	suite.mock.ExpectBegin()
	suite.expectDecrement(suite.first, 1).
		WillReturnRows(pgxmock.NewRows([]string{"name", "sell_price", "purchase_price"}))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.tenantID, suite.first).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, sale, []models.SaleItemRequest{{ProductID: suite.first, Quantity: 1}})

	assert.ErrorIs(suite.T(), err, common.ErrProductNotFound)
}

func (suite *SaleRepoTestSuite) TestCreate_EmptySale() {
	err := suite.repo.Create(suite.context, suite.newSale(), nil)

	assert.ErrorIs(suite.T(), err, common.ErrEmptySale)
}

func (suite *SaleRepoTestSuite) TestList_FoldsItemsIntoSales() {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	saleA, saleB := uuid.New(), uuid.New()
	cashier := "Lina"

	suite.mock.ExpectQuery(`WHERE s.tenant_id = \$1 AND s.created_at >= \$2 AND s.created_at < \$3`).
		WithArgs(suite.tenantID, from, to).
		WillReturnRows(pgxmock.NewRows(saleColumns).
			AddRow(saleA, suite.tenantID, &cashier, 2, 3, 15.0, 7.0, from, suite.second, "Tea 250g", 2, 2.5, 1.0, 5.0).
			AddRow(saleA, suite.tenantID, &cashier, 2, 3, 15.0, 7.0, from, suite.first, "Rice 5kg", 1, 10.0, 6.0, 10.0).
			AddRow(saleB, suite.tenantID, (*string)(nil), 1, 1, 10.0, 4.0, from.Add(time.Hour), suite.first, "Rice 5kg", 1, 10.0, 6.0, 10.0))

	sales, err := suite.repo.List(suite.context, suite.tenantID, models.SaleFilter{From: &from, To: &to})

	require.NoError(suite.T(), err)
	require.Len(suite.T(), sales, 2)
	assert.Len(suite.T(), sales[0].Items, 2)
	assert.Equal(suite.T(), "Lina", *sales[0].EmployeeName)
	assert.Len(suite.T(), sales[1].Items, 1)
	assert.Nil(suite.T(), sales[1].EmployeeName)
}

func (suite *SaleRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(`WHERE s.tenant_id = \$1 AND s.id = \$2`).
		WithArgs(suite.tenantID, id).
		WillReturnRows(pgxmock.NewRows(saleColumns))

	sale, err := suite.repo.GetByID(suite.context, suite.tenantID, id)

	assert.Nil(suite.T(), sale)
	assert.ErrorIs(suite.T(), err, common.ErrSaleNotFound)
}

func (suite *SaleRepoTestSuite) TestDeleteAll() {
	suite.mock.ExpectExec(`DELETE FROM sales WHERE tenant_id = \$1`).
		WithArgs(suite.tenantID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := suite.repo.DeleteAll(suite.context, suite.tenantID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), n)
}
