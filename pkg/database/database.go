package database

import (
	"fmt"
	"log"
	"tg_quiz_backend/internal/config"
	"tg_quiz_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不迁移，--migrate/--migrate-only 强制执行
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Question{},
			&model.AnswerOption{},
			&model.QuizSession{},
			&model.SessionQuestion{},
			&model.SessionAnswer{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		seedQuestions(db)
	}

	return db, nil
}

// seedQuestions 题库为空时插入演示题目，保证开箱即可创建会话
func seedQuestions(db *gorm.DB) {
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count > 0 {
		return
	}

	type seed struct {
		text    string
		answers []string
		correct int
	}
	defaults := []seed{
		{"Сколько будет 2 + 2?", []string{"3", "4", "5"}, 1},
		{"Столица Франции?", []string{"Лион", "Марсель", "Париж"}, 2},
		{"Какая планета ближе всего к Солнцу?", []string{"Меркурий", "Венера", "Марс"}, 0},
		{"Сколько дней в високосном году?", []string{"365", "366", "364"}, 1},
		{"Какой газ растения поглощают из воздуха?", []string{"Кислород", "Азот", "Углекислый газ"}, 2},
	}

	for _, s := range defaults {
		q := &model.Question{Difficulty: "easy", Text: s.text}
		for i, a := range s.answers {
			q.Options = append(q.Options, model.AnswerOption{Text: a, IsCorrect: i == s.correct})
		}
		db.Create(q)
	}

	log.Println("Seeded default question bank")
}
