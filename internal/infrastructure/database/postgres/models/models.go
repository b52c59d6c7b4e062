package models

type tabler interface {
	TableName() string
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&RefreshTokenModel{},
		&VehicleModel{},
		&VehicleDocumentModel{},
		&DriverModel{},
		&DriverPerformanceModel{},
		&DriverDocumentModel{},
		&DriverAttendanceModel{},
		&TripModel{},
		&TripExpenseModel{},
		&TripCheckpointModel{},
		&TripDocumentModel{},
		&FuelLogModel{},
		&ExpenseModel{},
		&FuelBudgetModel{},
		&MaintenanceScheduleModel{},
		&MaintenancePartModel{},
		&MaintenanceReminderModel{},
		&StudentModel{},
		&StudentAttendanceModel{},
		&StudentPerformanceModel{},
		&TerminatedStudentModel{},
		&AlertModel{},
	}
}

func TableNames() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, m := range all {
		names = append(names, m.(tabler).TableName())
	}
	return names
}
