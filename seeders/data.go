package seeders

import "asset-system/internal/dto"

var staffSeed = []dto.CreateStaffDTO{
	{FullName: "Каримов Фарход", Email: "f.karimov@asset-system.local", Position: "Кладовщик", Department: "warehouse", Password: "warehouse1"},
	{FullName: "Саидова Нигина", Email: "n.saidova@asset-system.local", Position: "Системный администратор", Department: "it", Password: "itstaff1"},
	{FullName: "Рахимов Далер", Email: "d.rakhimov@asset-system.local", Position: "Бухгалтер", Department: "finance", Password: "finance1"},
	{FullName: "Назарова Мадина", Email: "m.nazarova@asset-system.local", Position: "Специалист по закупкам", Department: "procurement", Password: "procure1"},
}

var assetSeed = []dto.CreateAssetDTO{
	{
		Name: "Dell Latitude 5440", SerialNumber: "DL5440-0001", Manufacturer: "Dell", Model: "Latitude 5440",
		Category: "it-equipment", Subcategory: "laptop", Branch: "Головной офис", Building: "А", Floor: "2", Room: "204",
		PurchasePrice: 12000, Currency: "TJS", PurchaseDate: "2024-03-01", SalvageValue: 1200, UsefulLifeYears: 4,
		Condition: "good", Criticality: 3,
		Specifications: map[string]string{"cpu": "i5-1345U", "ram": "16GB", "storage": "512GB SSD"},
	},
	{
		Name: "HP LaserJet Pro M404", SerialNumber: "HPM404-7781", Manufacturer: "HP", Model: "M404dn",
		Category: "it-equipment", Subcategory: "printer", Branch: "Головной офис", Building: "А", Floor: "1", Room: "101",
		PurchasePrice: 3500, Currency: "TJS", PurchaseDate: "2021-06-15", SalvageValue: 200, UsefulLifeYears: 5,
		Condition: "fair", Criticality: 2,
	},
	{
		Name: "Toyota Hilux", SerialNumber: "JTFHX02P-552", Manufacturer: "Toyota", Model: "Hilux",
		Category: "vehicles", Subcategory: "truck", Branch: "Склад Худжанд",
		PurchasePrice: 38000, Currency: "USD", PurchaseDate: "2020-02-10", SalvageValue: 8000, UsefulLifeYears: 8,
		DepreciationMethod: "declining-balance", Condition: "good", Criticality: 4,
	},
	{
		Name: "Вилочный погрузчик Linde H25", SerialNumber: "LH25-3321", Manufacturer: "Linde", Model: "H25",
		Category: "vehicles", Subcategory: "forklift", Branch: "Склад Худжанд", Building: "Склад 1",
		PurchasePrice: 21000, Currency: "USD", PurchaseDate: "2018-09-01", SalvageValue: 2000, UsefulLifeYears: 10,
		Condition: "poor", Criticality: 5,
		Specifications: map[string]string{"lift_capacity": "2500 кг", "operating_hours": "11200"},
	},
}
