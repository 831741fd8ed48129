package dao

import (
	"context"
	"errors"
	"strings"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/internal/model"

	"gorm.io/gorm"
)

// deleteBatchSize 批量删除时单条语句的 IN 列表上限
const deleteBatchSize = 500

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:        m.ID,
		Name:      m.Name,
		ParentID:  m.ParentID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(n *domain.Note) *model.Note {
	if n == nil {
		return nil
	}
	return &model.Note{
		ID:        n.ID,
		Name:      n.Name,
		ParentID:  n.ParentID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (r *noteRepository) toDomainList(ms []*model.Note) []*domain.Note {
	list := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list
}

// noteErr 将 gorm 错误映射为领域错误
func noteErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNoteNotFound
	case errors.Is(err, domain.ErrNoteNotFound), errors.Is(err, domain.ErrCycle):
		return err
	}
	return domain.NewStoreError(op, err)
}

// List 获取全部笔记
func (r *noteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	var ms []*model.Note
	if err := r.dao.DB(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, noteErr("list", err)
	}
	return r.toDomainList(ms), nil
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	if err := r.dao.DB(ctx).First(&m, id).Error; err != nil {
		return nil, noteErr("get", err)
	}
	return r.toDomain(&m), nil
}

// ListByParent 获取直接子笔记
func (r *noteRepository) ListByParent(ctx context.Context, parentID *int64) ([]*domain.Note, error) {
	var ms []*model.Note
	q := r.dao.DB(ctx)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if err := q.Order("id").Find(&ms).Error; err != nil {
		return nil, noteErr("list children", err)
	}
	return r.toDomainList(ms), nil
}

// likeEscaper 转义 LIKE 通配符，'!' 作为转义字符在三种方言中行为一致
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchByName 名称子串匹配，大小写敏感性取决于数据库排序规则
func (r *noteRepository) SearchByName(ctx context.Context, text string) ([]*domain.Note, error) {
	var ms []*model.Note
	pattern := "%" + likeEscaper.Replace(text) + "%"
	if err := r.dao.DB(ctx).Where("name LIKE ? ESCAPE '!'", pattern).Order("id").Find(&ms).Error; err != nil {
		return nil, noteErr("search", err)
	}
	return r.toDomainList(ms), nil
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	var result *domain.Note
	err := r.dao.ExecuteWrite(ctx, LaneNotes, func(db *gorm.DB) error {
		m := r.toModel(note)
		m.ID = 0
		if err := db.Create(m).Error; err != nil {
			return err
		}
		result = r.toDomain(m)
		return nil
	})
	if err != nil {
		return nil, noteErr("create", err)
	}
	return result, nil
}

// Update 更新名称和内容
func (r *noteRepository) Update(ctx context.Context, id int64, name, content string) (*domain.Note, error) {
	var result *domain.Note
	err := r.dao.ExecuteWrite(ctx, LaneNotes, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var m model.Note
			if err := tx.First(&m, id).Error; err != nil {
				return err
			}
			if err := tx.Model(&m).Updates(map[string]any{
				"name":    name,
				"content": content,
			}).Error; err != nil {
				return err
			}
			m.Name, m.Content = name, content
			result = r.toDomain(&m)
			return nil
		})
	})
	if err != nil {
		return nil, noteErr("update", err)
	}
	return result, nil
}

// DeleteCascade 删除笔记及全部后代
// 先按层收集后代 ID，再分批删除后代，最后删除目标，整个过程在同一事务内
func (r *noteRepository) DeleteCascade(ctx context.Context, id int64) (*domain.Note, []int64, error) {
	var snapshot *domain.Note
	var removed []int64

	err := r.dao.ExecuteWrite(ctx, LaneNotes, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var target model.Note
			if err := tx.First(&target, id).Error; err != nil {
				return err
			}

			descendants, err := collectDescendants(tx, id)
			if err != nil {
				return err
			}

			for start := 0; start < len(descendants); start += deleteBatchSize {
				end := min(start+deleteBatchSize, len(descendants))
				if err := tx.Where("id IN ?", descendants[start:end]).Delete(&model.Note{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Delete(&model.Note{}, id).Error; err != nil {
				return err
			}

			snapshot = r.toDomain(&target)
			removed = descendants
			return nil
		})
	})
	if err != nil {
		return nil, nil, noteErr("delete", err)
	}
	return snapshot, removed, nil
}

// collectDescendants 以工作队列按层查询子节点，每层一次查询
// seen 防止库中已存在的异常环导致死循环
func collectDescendants(tx *gorm.DB, rootID int64) ([]int64, error) {
	seen := map[int64]bool{rootID: true}
	var result []int64
	frontier := []int64{rootID}

	for len(frontier) > 0 {
		var children []int64
		if err := tx.Model(&model.Note{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, c := range children {
			if seen[c] {
				continue
			}
			seen[c] = true
			result = append(result, c)
			frontier = append(frontier, c)
		}
	}
	return result, nil
}

// Move 修改父节点
// 从 newParentID 开始沿父链向上查找，遇到 id 即拒绝；检查与更新在同一事务内
func (r *noteRepository) Move(ctx context.Context, id int64, newParentID *int64) (*domain.Note, error) {
	var result *domain.Note
	err := r.dao.ExecuteWrite(ctx, LaneNotes, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var m model.Note
			if err := tx.First(&m, id).Error; err != nil {
				return err
			}
			if newParentID != nil {
				if err := checkAncestors(tx, id, *newParentID); err != nil {
					return err
				}
			}
			var parentValue any = gorm.Expr("NULL")
			if newParentID != nil {
				parentValue = *newParentID
			}
			if err := tx.Model(&m).Update("parent_id", parentValue).Error; err != nil {
				return err
			}
			m.ParentID = newParentID
			result = r.toDomain(&m)
			return nil
		})
	})
	if err != nil {
		return nil, noteErr("move", err)
	}
	return result, nil
}

// checkAncestors 父链上出现 id 时返回 ErrCycle
// 父节点不存在时停止，悬空引用不视为错误
func checkAncestors(tx *gorm.DB, id, newParentID int64) error {
	visited := map[int64]bool{}
	cur := newParentID
	for {
		if cur == id {
			return domain.ErrCycle
		}
		if visited[cur] {
			return nil
		}
		visited[cur] = true

		var parent model.Note
		err := tx.Select("id", "parent_id").First(&parent, cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		cur = *parent.ParentID
	}
}

// Ancestors 返回从根到该笔记的路径
func (r *noteRepository) Ancestors(ctx context.Context, id int64) ([]*domain.Note, error) {
	var chain []*domain.Note
	err := r.dao.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Note
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		chain = append(chain, r.toDomain(&m))
		visited := map[int64]bool{m.ID: true}

		for m.ParentID != nil && !visited[*m.ParentID] {
			pid := *m.ParentID
			visited[pid] = true
			m = model.Note{}
			err := tx.First(&m, pid).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			if err != nil {
				return err
			}
			chain = append(chain, r.toDomain(&m))
		}
		return nil
	})
	if err != nil {
		return nil, noteErr("ancestors", err)
	}

	// 反转为根在前
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// CountOrphans 统计父引用悬空的笔记数
func (r *noteRepository) CountOrphans(ctx context.Context) (int64, error) {
	db := r.dao.DB(ctx)
	var count int64
	err := db.Model(&model.Note{}).
		Where("parent_id IS NOT NULL AND parent_id NOT IN (?)", db.Model(&model.Note{}).Select("id")).
		Count(&count).Error
	if err != nil {
		return 0, noteErr("count orphans", err)
	}
	return count, nil
}
