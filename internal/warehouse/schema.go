package warehouse

import "salesdw/internal/ddl"

// Warehouse table names.
const (
	TableFactSales   = "FactSales"
	TableDimProduct  = "DimProduct"
	TableDimCustomer = "DimCustomer"
)

// FactSales columns.
const (
	ColOrderNumber = "Order_Number"
	ColProductKey  = "Product_Key"
	ColCustomerID  = "Customer_ID"
	ColOrderDate   = "Order_Date"
	ColShipDate    = "Ship_Date"
	ColDueDate     = "Due_Date"
	ColSalesAmount = "Sales_Amount"
	ColQuantity    = "Quantity"
	ColUnitPrice   = "Unit_Price"
)

// DimProduct and DimCustomer columns. Product_Key and Customer_ID are shared
// with FactSales.
const (
	ColProductID   = "Product_ID"
	ColProductName = "Product_Name"
	ColProductCost = "Product_Cost"
	ColProductLine = "Product_Line"
	ColStartDate   = "Start_Date"
	ColEndDate     = "End_Date"
	ColCustomerKey = "Customer_Key"
	ColFirstName   = "First_Name"
	ColLastName    = "Last_Name"
	ColGender      = "Gender"
)

// FactSalesDef is the explicit FactSales definition.
var FactSalesDef = ddl.TableDef{
	Name: TableFactSales,
	Columns: []ddl.ColumnDef{
		{Name: ColOrderNumber, Type: "text", Nullable: true},
		{Name: ColProductKey, Type: "text", Nullable: true},
		{Name: ColCustomerID, Type: "text", Nullable: true},
		{Name: ColOrderDate, Type: "date", Nullable: true},
		{Name: ColShipDate, Type: "date", Nullable: true},
		{Name: ColDueDate, Type: "date", Nullable: true},
		{Name: ColSalesAmount, Type: "decimal"},
		{Name: ColQuantity, Type: "int"},
		{Name: ColUnitPrice, Type: "decimal", Nullable: true},
	},
}

// DimProductDef is the explicit DimProduct definition.
var DimProductDef = ddl.TableDef{
	Name: TableDimProduct,
	Columns: []ddl.ColumnDef{
		{Name: ColProductID, Type: "int", Nullable: true},
		{Name: ColProductKey, Type: "text"},
		{Name: ColProductName, Type: "text", Nullable: true},
		{Name: ColProductCost, Type: "decimal", Nullable: true},
		{Name: ColProductLine, Type: "text", Nullable: true},
		{Name: ColStartDate, Type: "date", Nullable: true},
		{Name: ColEndDate, Type: "date", Nullable: true},
	},
}

// DimCustomerDef is the explicit DimCustomer definition.
var DimCustomerDef = ddl.TableDef{
	Name: TableDimCustomer,
	Columns: []ddl.ColumnDef{
		{Name: ColCustomerID, Type: "int", Nullable: true},
		{Name: ColCustomerKey, Type: "text", Nullable: true},
		{Name: ColFirstName, Type: "text", Nullable: true},
		{Name: ColLastName, Type: "text", Nullable: true},
		{Name: ColGender, Type: "text", Nullable: true},
	},
}
