package domain

// InjuryType is one result from the serious injury chart. The set is fixed;
// every value maps to exactly one InjuryCategory.
type InjuryType string

const (
	InjuryDead                  InjuryType = "dead"
	InjuryMultipleInjuries      InjuryType = "multiple_injuries"
	InjuryLegWound              InjuryType = "leg_wound"
	InjuryArmWound              InjuryType = "arm_wound"
	InjuryMadness               InjuryType = "madness"
	InjurySmashedLeg            InjuryType = "smashed_leg"
	InjuryChestWound            InjuryType = "chest_wound"
	InjuryBlindedInOneEye       InjuryType = "blinded_in_one_eye"
	InjuryOldBattleWound        InjuryType = "old_battle_wound"
	InjuryNervousCondition      InjuryType = "nervous_condition"
	InjuryHandInjury            InjuryType = "hand_injury"
	InjuryDeepWound             InjuryType = "deep_wound"
	InjuryRobbed                InjuryType = "robbed"
	InjuryFullRecovery          InjuryType = "full_recovery"
	InjuryBitterEnmity          InjuryType = "bitter_enmity"
	InjuryCaptured              InjuryType = "captured"
	InjuryHardened              InjuryType = "hardened"
	InjuryHorribleScars         InjuryType = "horrible_scars"
	InjurySoldToThePits         InjuryType = "sold_to_the_pits"
	InjurySurvivesAgainstOdds   InjuryType = "survives_against_the_odds"
)

type InjuryCategory string

const (
	InjuryCategoryLethal    InjuryCategory = "lethal"
	InjuryCategoryInjurious InjuryCategory = "injurious"
	InjuryCategoryOther     InjuryCategory = "other"
)

var injuryCategories = map[InjuryType]InjuryCategory{
	InjuryDead:                InjuryCategoryLethal,
	InjuryMultipleInjuries:    InjuryCategoryInjurious,
	InjuryLegWound:            InjuryCategoryInjurious,
	InjuryArmWound:            InjuryCategoryInjurious,
	InjuryMadness:             InjuryCategoryInjurious,
	InjurySmashedLeg:          InjuryCategoryInjurious,
	InjuryChestWound:          InjuryCategoryInjurious,
	InjuryBlindedInOneEye:     InjuryCategoryInjurious,
	InjuryOldBattleWound:      InjuryCategoryInjurious,
	InjuryNervousCondition:    InjuryCategoryInjurious,
	InjuryHandInjury:          InjuryCategoryInjurious,
	InjuryDeepWound:           InjuryCategoryInjurious,
	InjuryRobbed:              InjuryCategoryOther,
	InjuryFullRecovery:        InjuryCategoryOther,
	InjuryBitterEnmity:        InjuryCategoryOther,
	InjuryCaptured:            InjuryCategoryOther,
	InjuryHardened:            InjuryCategoryOther,
	InjuryHorribleScars:       InjuryCategoryOther,
	InjurySoldToThePits:       InjuryCategoryOther,
	InjurySurvivesAgainstOdds: InjuryCategoryOther,
}

// CategoryOf maps an injury type to its category. The second return is false
// for codes outside the chart; callers must reject those before writing.
func CategoryOf(t InjuryType) (InjuryCategory, bool) {
	c, ok := injuryCategories[t]
	return c, ok
}

// InjuryTypes lists every chart result, in chart order.
func InjuryTypes() []InjuryType {
	return []InjuryType{
		InjuryDead, InjuryMultipleInjuries, InjuryLegWound, InjuryArmWound,
		InjuryMadness, InjurySmashedLeg, InjuryChestWound, InjuryBlindedInOneEye,
		InjuryOldBattleWound, InjuryNervousCondition, InjuryHandInjury,
		InjuryDeepWound, InjuryRobbed, InjuryFullRecovery, InjuryBitterEnmity,
		InjuryCaptured, InjuryHardened, InjuryHorribleScars, InjurySoldToThePits,
		InjurySurvivesAgainstOdds,
	}
}
