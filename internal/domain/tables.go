package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	&User{},
	// Marketplace
	&Store{},
	&Product{},
	// Visitor services
	&StudentGuide{},
}
