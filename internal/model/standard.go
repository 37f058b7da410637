package model

// AssessmentStandard 固定评价标准目录中的一条，只读。
type AssessmentStandard struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	ItemID      string `bson:"item_id" json:"item_id"`
	Description string `bson:"description" json:"description"`
}

// DescriptionNotFound 标准编号查不到描述时的占位文案，聚合结果中
// 绝不因缺失描述而丢条目。
const DescriptionNotFound = "Description not found"
